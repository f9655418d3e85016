package comps

import (
	"github.com/the-maldridge/ncomps/pkg/hdrlist"
)

// ComponentState is the saved selection of one component.
type ComponentState struct {
	Name         string
	Manual       bool
	IncludeCount int
}

// A Snapshot is the complete selection state of a Set.  Callers
// should treat it as opaque; it is exported so that it can be
// persisted.
type Snapshot struct {
	Components []ComponentState
	Packages   []hdrlist.PackageState
}

// Snapshot captures the selection of every component and package.
func (s *Set) Snapshot() Snapshot {
	out := Snapshot{
		Components: make([]ComponentState, len(s.components)),
		Packages:   s.hl.States(),
	}
	for i, c := range s.components {
		out.Components[i] = ComponentState{Name: c.name, Manual: c.manual, IncludeCount: c.includeCount}
	}
	return out
}

// Restore writes a snapshot back verbatim, caches included; nothing
// is recomputed.  A snapshot taken from this set always restores.
func (s *Set) Restore(snap Snapshot) error {
	if len(snap.Components) != len(s.components) || !s.hl.Compatible(snap.Packages) {
		return ErrSnapshotMismatch
	}
	for i, cs := range snap.Components {
		if cs.Name != s.components[i].name || cs.IncludeCount < 0 {
			return ErrSnapshotMismatch
		}
	}

	for i, cs := range snap.Components {
		s.components[i].manual = cs.Manual
		s.components[i].includeCount = cs.IncludeCount
	}
	s.hl.SetStates(snap.Packages)
	return nil
}
