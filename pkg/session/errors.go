package session

import (
	"errors"
)

var (
	// ErrNotBootstrapped is returned by every operation before
	// Bootstrap has succeeded.
	ErrNotBootstrapped = errors.New("session is not bootstrapped")

	// ErrNoSuchComponent is returned for an unknown component name.
	ErrNoSuchComponent = errors.New("no component with that name")

	// ErrNoSuchPackage is returned for an unknown package name.
	ErrNoSuchPackage = errors.New("no package with that name")

	// ErrNoSuchSnapshot is returned when loading a snapshot that was
	// never saved.
	ErrNoSuchSnapshot = errors.New("no snapshot with that name")

	// ErrNothingToUndo is returned by Undo with an empty history.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNoStorage is returned by Save and Load when persistence is
	// not enabled.
	ErrNoStorage = errors.New("persistence is not enabled")
)
