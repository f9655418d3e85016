package types

import (
	"strings"
)

// An ArchList is the ordered list of architecture tags that a system
// accepts, best first.
type ArchList []string

func (al ArchList) String() string {
	return strings.Join(al, ":")
}

// Contains reports whether the arch is present in the list.
func (al ArchList) Contains(arch string) bool {
	for _, a := range al {
		if a == arch {
			return true
		}
	}
	return false
}

// ArchListFromString returns an arch list from its string
// representation.  Empty elements are dropped.
func ArchListFromString(s string) ArchList {
	out := ArchList{}
	for _, a := range strings.Split(s, ":") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
