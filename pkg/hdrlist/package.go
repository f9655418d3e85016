package hdrlist

import (
	"fmt"

	"github.com/the-maldridge/ncomps/pkg/types"
)

// State is the selection state of a single package.
type State int

const (
	// CheckChain derives selection from the package's chains.
	CheckChain State = iota
	// ForceSelect pins the package selected.
	ForceSelect
	// ForceUnselect pins the package unselected.
	ForceUnselect
)

func (s State) String() string {
	switch s {
	case CheckChain:
		return "CHECK_CHAIN"
	case ForceSelect:
		return "FORCE_SELECT"
	case ForceUnselect:
		return "FORCE_UNSELECT"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "CHECK_CHAIN":
		*s = CheckChain
	case "FORCE_SELECT":
		*s = ForceSelect
	case "FORCE_UNSELECT":
		*s = ForceUnselect
	default:
		return fmt.Errorf("unknown package state %q", b)
	}
	return nil
}

// A Member is one link of a selection chain.  Components satisfy
// this interface; the header list never needs to know more about
// them.
type Member interface {
	Name() string
	IsSelected() bool

	// Admits reports whether the member's conditions on the
	// package hold, independent of whether the member is
	// selected.
	Admits(*Package) bool
}

// A Chain is a list of members that must all be selected, and all
// admit the package, for the package to be chain selected.
type Chain []Member

// Satisfied reports whether the chain selects the package.
func (c Chain) Satisfied(p *Package) bool {
	for _, m := range c {
		if !m.IsSelected() || !m.Admits(p) {
			return false
		}
	}
	return true
}

// Package is a header plus its selection state.
type Package struct {
	hdr types.Header

	chains   []Chain
	state    State
	selected bool
}

func newPackage(h types.Header) *Package {
	return &Package{hdr: h}
}

// Name returns the package name.
func (p *Package) Name() string { return p.hdr.Name }

// Size returns the installed size of the package.
func (p *Package) Size() int64 { return p.hdr.Size }

// Header returns the metadata the package was built from.
func (p *Package) Header() types.Header { return p.hdr }

// State returns the selection state.
func (p *Package) State() State { return p.state }

// IsSelected returns the cached selection.
func (p *Package) IsSelected() bool { return p.selected }

// Chains returns the selection chains attached to the package.
func (p *Package) Chains() []Chain { return p.chains }

// AddChain attaches a selection chain.  Chains are only added while
// a component set is being built.
func (p *Package) AddChain(c Chain) {
	p.chains = append(p.chains, c)
}

// ForceSelect pins the package selected without looking at its
// chains.
func (p *Package) ForceSelect() {
	p.state = ForceSelect
	p.selected = true
}

// ForceUnselect pins the package unselected.
func (p *Package) ForceUnselect() {
	p.state = ForceUnselect
	p.selected = false
}

// UpdateCache recomputes the selection from the chains.  Forced
// packages are left alone.
func (p *Package) UpdateCache() {
	if p.state != CheckChain {
		return
	}
	p.selected = false
	for _, c := range p.chains {
		if c.Satisfied(p) {
			p.selected = true
			return
		}
	}
}

// Unforce drops a force state and recomputes the selection from the
// chains.
func (p *Package) Unforce() {
	p.state = CheckChain
	p.UpdateCache()
}
