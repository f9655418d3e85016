package comps

import (
	"github.com/the-maldridge/ncomps/pkg/expr"
	"github.com/the-maldridge/ncomps/pkg/hdrlist"
)

// A Component is a named group of packages with its own selection
// state.  Components are only created by a Set and live as long as
// it does.
type Component struct {
	set *Set

	name      string
	hidden    bool
	defaultOn bool

	packages []*hdrlist.Package
	members  map[*hdrlist.Package]Membership
	includes []*Component

	manual       bool
	includeCount int
}

func newComponent(s *Set, name string, hidden, defaultOn bool) *Component {
	return &Component{
		set:       s,
		name:      name,
		hidden:    hidden,
		defaultOn: defaultOn,
		members:   make(map[*hdrlist.Package]Membership),
	}
}

// Name returns the component name.
func (c *Component) Name() string { return c.name }

// Hidden reports whether the component is normally not shown.
func (c *Component) Hidden() bool { return c.hidden }

// DefaultOn reports whether the component starts selected.
func (c *Component) DefaultOn() bool { return c.defaultOn }

// Packages returns the member packages in the order they were
// added.
func (c *Component) Packages() []*hdrlist.Package {
	out := make([]*hdrlist.Package, len(c.packages))
	copy(out, c.packages)
	return out
}

// Includes returns the components pulled in by this one.
func (c *Component) Includes() []*Component {
	out := make([]*Component, len(c.includes))
	copy(out, c.includes)
	return out
}

// Membership returns how the package belongs to the component.
func (c *Component) Membership(p *hdrlist.Package) (Membership, bool) {
	m, ok := c.members[p]
	return m, ok
}

// IncludeCount returns how many selected components currently
// include this one.
func (c *Component) IncludeCount() int { return c.includeCount }

// IsManuallySelected reports whether the component was selected
// directly, ignoring includes.
func (c *Component) IsManuallySelected() bool { return c.manual }

// IsSelected reports whether the component is selected directly or
// through an include.
func (c *Component) IsSelected() bool {
	return c.manual || c.includeCount > 0
}

// Admits reports whether the component's conditions on the package
// hold.  Packages that are unconditional members, or not members at
// all, are always admitted.
func (c *Component) Admits(p *hdrlist.Package) bool {
	cond, ok := c.members[p].(Conditional)
	if !ok {
		return true
	}
	for _, e := range cond {
		match, err := c.set.eval.Eval(e, expr.TagAll)
		if err != nil {
			c.set.l.Warn("Bad membership expression", "component", c.name, "package", p.Name(), "expr", e, "error", err)
			continue
		}
		if match {
			return true
		}
	}
	return false
}

// Select selects the component and everything it includes.
func (c *Component) Select() {
	c.selectFor(false)
}

// Unselect drops the manual selection and releases the includes.
func (c *Component) Unselect() {
	c.unselectFor(false)
}

func (c *Component) selectFor(forInclude bool) {
	if forInclude {
		c.includeCount++
	} else {
		c.manual = true
	}
	c.set.l.Trace("Selecting component", "component", c.name, "include", forInclude, "count", c.includeCount)
	c.updatePackages()
	for _, o := range c.includes {
		o.selectFor(true)
	}
}

func (c *Component) unselectFor(forInclude bool) {
	if forInclude {
		if c.includeCount > 0 {
			c.includeCount--
		}
	} else {
		c.manual = false
	}
	c.set.l.Trace("Unselecting component", "component", c.name, "include", forInclude, "count", c.includeCount)
	c.updatePackages()
	for _, o := range c.includes {
		o.unselectFor(true)
	}
}

func (c *Component) updatePackages() {
	for _, p := range c.packages {
		p.UpdateCache()
	}
}

func (c *Component) track(p *hdrlist.Package) {
	if _, ok := c.members[p]; !ok {
		c.packages = append(c.packages, p)
	}
}

func (c *Component) addPackage(p *hdrlist.Package) {
	c.track(p)
	c.members[p] = Unconditional{}
	p.AddChain(hdrlist.Chain{c})
}

// addPackageWithExpression only adds a chain the first time the
// package is seen.  Later expressions extend an existing conditional
// membership, or replace an unconditional one.
func (c *Component) addPackageWithExpression(e string, p *hdrlist.Package) {
	m, ok := c.members[p]
	if !ok {
		c.track(p)
		c.members[p] = Conditional{e}
		p.AddChain(hdrlist.Chain{c})
		return
	}
	if cond, isCond := m.(Conditional); isCond {
		c.members[p] = append(cond, e)
		return
	}
	c.members[p] = Conditional{e}
}

func (c *Component) addConditionalPackage(companion *Component, p *hdrlist.Package) {
	c.track(p)
	c.members[p] = Unconditional{}
	p.AddChain(hdrlist.Chain{c, companion})
}

func (c *Component) addInclude(o *Component) {
	c.includes = append(c.includes, o)
}

func (c *Component) setDefaultSelection() {
	if c.defaultOn {
		c.Select()
	}
}
