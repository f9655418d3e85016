package session

import (
	"github.com/the-maldridge/ncomps/pkg/comps"
	"github.com/the-maldridge/ncomps/pkg/hdrlist"
)

func summarize(c *comps.Component, withPackages bool) ComponentSummary {
	out := ComponentSummary{
		Name:         c.Name(),
		Hidden:       c.Hidden(),
		DefaultOn:    c.DefaultOn(),
		Selected:     c.IsSelected(),
		Manual:       c.IsManuallySelected(),
		IncludeCount: c.IncludeCount(),
	}
	if !withPackages {
		return out
	}
	for _, p := range c.Packages() {
		ps := summarizePkg(p)
		if m, ok := c.Membership(p); ok {
			if cond, ok := m.(comps.Conditional); ok {
				ps.Conditional = []string(cond)
			}
		}
		out.Packages = append(out.Packages, ps)
	}
	return out
}

func summarizePkg(p *hdrlist.Package) PackageSummary {
	return PackageSummary{
		Name:     p.Name(),
		Version:  p.Header().Version,
		Size:     p.Size(),
		State:    p.State().String(),
		Selected: p.IsSelected(),
	}
}

// Components lists every component in file order, Everything last.
func (m *Manager) Components() ([]ComponentSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set == nil {
		return nil, ErrNotBootstrapped
	}
	out := make([]ComponentSummary, 0, m.set.Len())
	for _, c := range m.set.Components() {
		out = append(out, summarize(c, false))
	}
	return out, nil
}

// Component describes one component including its packages.
func (m *Manager) Component(name string) (ComponentSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.component(name)
	if err != nil {
		return ComponentSummary{}, err
	}
	return summarize(c, true), nil
}

// Package describes one package.
func (m *Manager) Package(name string) (PackageSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.pkg(name)
	if err != nil {
		return PackageSummary{}, err
	}
	return summarizePkg(p), nil
}

// Selected returns the names of the selected packages, sorted.
func (m *Manager) Selected() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set == nil {
		return nil, ErrNotBootstrapped
	}
	return m.selected(), nil
}

func (m *Manager) selected() []string {
	sel := m.set.SelectedPackages()
	out := make([]string, len(sel))
	for i, p := range sel {
		out[i] = p.Name()
	}
	return out
}

// Size returns the installed size of all packages and of the
// selected ones.
func (m *Manager) Size() (Size, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set == nil {
		return Size{}, ErrNotBootstrapped
	}
	return Size{Total: m.set.TotalSize(), Selected: m.set.SelectedSize()}, nil
}

// Summary reports the whole session at once.
func (m *Manager) Summary() (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set == nil {
		return Summary{}, ErrNotBootstrapped
	}

	out := Summary{
		Version:      m.set.Version(),
		Selected:     m.selected(),
		TotalSize:    m.set.TotalSize(),
		SelectedSize: m.set.SelectedSize(),
	}
	for _, c := range m.set.Components() {
		out.Components = append(out.Components, summarize(c, false))
	}
	for _, h := range m.compat {
		out.Compat = append(out.Compat, h.Name+" ("+h.Arch+")")
	}
	return out, nil
}

// Render returns the text rendering of the component set.
func (m *Manager) Render() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set == nil {
		return "", ErrNotBootstrapped
	}
	return m.set.String(), nil
}
