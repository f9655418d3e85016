// Package comps parses component files and runs the selection engine
// that maps component choices onto package selections.
package comps

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/ncomps/pkg/arch"
	"github.com/the-maldridge/ncomps/pkg/expr"
	"github.com/the-maldridge/ncomps/pkg/fetch"
	"github.com/the-maldridge/ncomps/pkg/hdrlist"
	"github.com/the-maldridge/ncomps/pkg/types"
)

// A Set is every component parsed from one component file, together
// with the header list they select from.  A Set is not safe for
// concurrent use.
type Set struct {
	l hclog.Logger

	arches        types.ArchList
	matchAllLangs bool
	env           expr.Environment
	retry         func() backoff.BackOff
	eval          *expr.Evaluator

	hl         *hdrlist.HeaderList
	version    string
	components []*Component
	byName     map[string]*Component

	// pkgExprs decides how Everything includes each package.  The
	// last line that mentions a package wins.
	pkgExprs map[*hdrlist.Package]Membership
}

func newSet(hl *hdrlist.HeaderList, opts []Option) *Set {
	s := &Set{
		l:        hclog.NewNullLogger(),
		env:      expr.OSEnv{},
		retry:    fetch.DefaultPolicy,
		hl:       hl,
		byName:   make(map[string]*Component),
		pkgExprs: make(map[*hdrlist.Package]Membership),
	}
	for _, o := range opts {
		o(s)
	}
	if len(s.arches) == 0 {
		s.arches = arch.Compatible(arch.Machine())
	}
	s.eval = expr.New(s.arches, expr.WithEnvironment(s.env), expr.WithMatchAllLangs(s.matchAllLangs))
	return s
}

// New fetches the component file at uri and parses it against the
// header list.  Transient fetch failures are retried according to
// the retry policy, forever by default.
func New(ctx context.Context, f fetch.Fetcher, uri string, hl *hdrlist.HeaderList, opts ...Option) (*Set, error) {
	s := newSet(hl, opts)
	b, err := fetch.Retrying(f, s.retry, s.l).Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	s.l.Debug("Fetched component file", "uri", uri, "bytes", len(b))
	if err := s.load(bytes.NewReader(b)); err != nil {
		return nil, err
	}
	return s, nil
}

// Parse reads a component file and builds a Set against the header
// list.
func Parse(r io.Reader, hl *hdrlist.HeaderList, opts ...Option) (*Set, error) {
	s := newSet(hl, opts)
	if err := s.load(r); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Set) load(r io.Reader) error {
	if err := s.parse(r); err != nil {
		return err
	}
	s.synthesizeEverything()
	for _, c := range s.components {
		c.setDefaultSelection()
	}
	s.l.Debug("Loaded component set", "version", s.version, "components", len(s.components), "selected", len(s.hl.Selected()))
	return nil
}

func (s *Set) synthesizeEverything() {
	ev := newComponent(s, EverythingName, true, false)
	for _, p := range s.hl.Values() {
		if IsExcluded(p.Name()) {
			continue
		}
		if cond, ok := s.pkgExprs[p].(Conditional); ok {
			ev.addPackageWithExpression(cond[len(cond)-1], p)
			continue
		}
		ev.addPackage(p)
	}
	s.add(ev)
}

func (s *Set) add(c *Component) {
	s.components = append(s.components, c)
	s.byName[c.name] = c
}

// Version returns the format version of the parsed file.
func (s *Set) Version() string { return s.version }

// HeaderList returns the packages this set selects from.
func (s *Set) HeaderList() *hdrlist.HeaderList { return s.hl }

// Evaluator returns the expression context of the set.
func (s *Set) Evaluator() *expr.Evaluator { return s.eval }

// Len returns the number of components, Everything included.
func (s *Set) Len() int { return len(s.components) }

// ByIndex returns the i'th component in declaration order.
func (s *Set) ByIndex(i int) *Component { return s.components[i] }

// Lookup returns the named component or nil.
func (s *Set) Lookup(name string) *Component { return s.byName[name] }

// Components returns the components in declaration order followed
// by Everything.
func (s *Set) Components() []*Component {
	out := make([]*Component, len(s.components))
	copy(out, s.components)
	return out
}

// Keys returns the component names in declaration order.
func (s *Set) Keys() []string {
	out := make([]string, len(s.components))
	for i, c := range s.components {
		out[i] = c.name
	}
	return out
}

// Everything returns the synthesized component.
func (s *Set) Everything() *Component { return s.byName[EverythingName] }

// SelectedPackages returns the selected packages ordered by name.
func (s *Set) SelectedPackages() []*hdrlist.Package { return s.hl.Selected() }

// TotalSize sums the size of every package regardless of selection.
func (s *Set) TotalSize() int64 { return s.hl.TotalSize() }

// SelectedSize sums the size of the selected packages.
func (s *Set) SelectedSize() int64 { return s.hl.SelectedSize() }

func (s *Set) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "comps v%s (%d components)\n", s.version, len(s.components))
	for _, c := range s.components {
		mark := " "
		switch {
		case c.manual:
			mark = "*"
		case c.includeCount > 0:
			mark = "+"
		}
		fmt.Fprintf(&b, "%s %s", mark, c.name)
		if c.hidden {
			b.WriteString(" (hidden)")
		}
		b.WriteString("\n")
	}
	return b.String()
}
