package hdrlist

// PackageState is the saved selection of one package.
type PackageState struct {
	Name     string
	State    State
	Selected bool
}

// States captures the selection of every package in key order.
func (hl *HeaderList) States() []PackageState {
	out := make([]PackageState, len(hl.names))
	for i, n := range hl.names {
		p := hl.packages[n]
		out[i] = PackageState{Name: n, State: p.state, Selected: p.selected}
	}
	return out
}

// Compatible reports whether the states were captured from a list
// with the same keys.
func (hl *HeaderList) Compatible(states []PackageState) bool {
	if len(states) != len(hl.names) {
		return false
	}
	for i, s := range states {
		if s.Name != hl.names[i] {
			return false
		}
	}
	return true
}

// SetStates writes captured states back verbatim.  Caches are not
// recomputed.  The caller checks Compatible first.
func (hl *HeaderList) SetStates(states []PackageState) {
	for i, s := range states {
		p := hl.packages[hl.names[i]]
		p.state = s.State
		p.selected = s.Selected
	}
}
