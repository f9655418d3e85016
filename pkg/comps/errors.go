package comps

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedCompsVersion is returned when the first line
	// of a component file is not a version this parser reads.
	ErrUnsupportedCompsVersion = errors.New("unsupported comps version")

	// ErrUnknownInclude is returned for @ includes and ? blocks
	// that name a component not declared earlier in the file.
	ErrUnknownInclude = errors.New("unknown component")

	// ErrUnknownPackage is returned for package lines naming a
	// package absent from the header list.
	ErrUnknownPackage = errors.New("unknown package")

	// ErrDuplicateComponent is returned when a component name is
	// declared twice or collides with Everything.
	ErrDuplicateComponent = errors.New("duplicate component")

	// ErrSyntax is returned for lines that fit no context.
	ErrSyntax = errors.New("syntax error")

	// ErrSnapshotMismatch is returned when a snapshot is restored
	// into a set with different components or packages.
	ErrSnapshotMismatch = errors.New("snapshot does not match component set")
)

// ParseError locates a failure inside a component file.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("comps line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
