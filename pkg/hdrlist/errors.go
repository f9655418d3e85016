package hdrlist

import "errors"

// ErrNoArchMatch is returned when headers were supplied but none of
// them can be installed on this system.
var ErrNoArchMatch = errors.New("no package matches the system architecture")
