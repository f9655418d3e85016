// Package hdrlist holds the deduplicated set of packages that a
// component set selects from.
package hdrlist

import (
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/ncomps/pkg/arch"
	"github.com/the-maldridge/ncomps/pkg/types"
)

// HeaderList is a name keyed collection of packages.  When several
// headers share a name only the one whose architecture scores best
// is kept.
type HeaderList struct {
	l hclog.Logger

	score   arch.Scorer
	compat  *[]types.Header
	noScore bool

	packages   map[string]*Package
	names      []string
	preordered bool
}

// New builds a header list from raw headers.
func New(headers []types.Header, opts ...Option) (*HeaderList, error) {
	hl := &HeaderList{
		l:          hclog.NewNullLogger(),
		score:      arch.ForMachine(arch.Machine()),
		packages:   make(map[string]*Package, len(headers)),
		preordered: true,
	}
	for _, o := range opts {
		o(hl)
	}

	scores := make(map[string]int, len(headers))
	for _, h := range headers {
		if !h.HasInstallOrder() {
			hl.preordered = false
		}

		if hl.noScore {
			hl.packages[h.Name] = newPackage(h)
			continue
		}

		s := hl.score(h.Arch)
		if s == 0 {
			hl.l.Trace("Skipping incompatible header", "package", h.Name, "arch", h.Arch)
			continue
		}

		cur, ok := hl.packages[h.Name]
		if !ok {
			hl.packages[h.Name] = newPackage(h)
			scores[h.Name] = s
			continue
		}

		loser := h
		if s > scores[h.Name] {
			loser = cur.hdr
			hl.packages[h.Name] = newPackage(h)
			scores[h.Name] = s
		}
		hl.l.Trace("Deduplicated header", "package", h.Name, "kept", hl.packages[h.Name].hdr.Arch, "dropped", loser.Arch)
		if hl.compat != nil {
			*hl.compat = append(*hl.compat, loser)
		}
	}

	if len(headers) > 0 && len(hl.packages) == 0 {
		return nil, ErrNoArchMatch
	}

	hl.names = make([]string, 0, len(hl.packages))
	for n := range hl.packages {
		hl.names = append(hl.names, n)
	}
	sort.Strings(hl.names)

	hl.l.Debug("Built header list", "input", len(headers), "packages", len(hl.packages), "preordered", hl.preordered)
	return hl, nil
}

// Len returns the number of packages.
func (hl *HeaderList) Len() int { return len(hl.names) }

// Preordered reports whether every input header carried an install
// order.  It is advisory only.
func (hl *HeaderList) Preordered() bool { return hl.preordered }

// Lookup returns the named package or nil.
func (hl *HeaderList) Lookup(name string) *Package {
	return hl.packages[name]
}

// Has reports whether the named package is present.
func (hl *HeaderList) Has(name string) bool {
	_, ok := hl.packages[name]
	return ok
}

// Keys returns the package names in ascending order.
func (hl *HeaderList) Keys() []string {
	out := make([]string, len(hl.names))
	copy(out, hl.names)
	return out
}

// Values returns the packages ordered by name.
func (hl *HeaderList) Values() []*Package {
	out := make([]*Package, len(hl.names))
	for i, n := range hl.names {
		out[i] = hl.packages[n]
	}
	return out
}

// List is the same as Values.
func (hl *HeaderList) List() []*Package {
	return hl.Values()
}

// Selected returns the selected packages ordered by name.
func (hl *HeaderList) Selected() []*Package {
	var out []*Package
	for _, n := range hl.names {
		if p := hl.packages[n]; p.selected {
			out = append(out, p)
		}
	}
	return out
}

// TotalSize sums the size of every package, selected or not.
func (hl *HeaderList) TotalSize() int64 {
	var t int64
	for _, p := range hl.packages {
		t += p.hdr.Size
	}
	return t
}

// SelectedSize sums the size of the selected packages.
func (hl *HeaderList) SelectedSize() int64 {
	var t int64
	for _, p := range hl.packages {
		if p.selected {
			t += p.hdr.Size
		}
	}
	return t
}
