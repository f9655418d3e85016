package fetch

import "errors"

var (
	// ErrTransient marks failures that may succeed when retried,
	// such as network errors and server side HTTP errors.
	ErrTransient = errors.New("transient fetch failure")

	// ErrUnknownScheme is returned for URIs no backend handles.
	ErrUnknownScheme = errors.New("unknown uri scheme")
)

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

func (e *transientError) Is(target error) bool { return target == ErrTransient }

// Transient marks err as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err}
}
