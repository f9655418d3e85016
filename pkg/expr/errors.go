package expr

import "errors"

var (
	// ErrMalformedExpression is returned for expressions that are
	// not wrapped in parentheses or whose terms have the wrong
	// number of arguments.
	ErrMalformedExpression = errors.New("malformed expression")

	// ErrUnknownTag is returned for terms whose tag is neither
	// lang nor arch.
	ErrUnknownTag = errors.New("unknown expression tag")
)
