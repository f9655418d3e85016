// Package session runs one installer session: a component set that
// is bootstrapped from configuration, mutated through selection
// operations with undo, and persisted as named snapshots.
package session

import (
	"context"
	"encoding/json"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/ncomps/pkg/arch"
	"github.com/the-maldridge/ncomps/pkg/comps"
	"github.com/the-maldridge/ncomps/pkg/config"
	"github.com/the-maldridge/ncomps/pkg/expr"
	"github.com/the-maldridge/ncomps/pkg/fetch"
	"github.com/the-maldridge/ncomps/pkg/hdrlist"
	"github.com/the-maldridge/ncomps/pkg/repo"
	"github.com/the-maldridge/ncomps/pkg/storage"
	"github.com/the-maldridge/ncomps/pkg/types"
)

// maxHistory bounds the undo stack; the oldest entries go first.
const maxHistory = 128

// NewManager creates a session manager.  The manager has no
// component set until Bootstrap succeeds.
func NewManager(l hclog.Logger, cfg *config.Config, opts ...Option) *Manager {
	x := Manager{
		mu:  new(sync.Mutex),
		l:   l.Named("session"),
		cfg: cfg,
		env: expr.OSEnv{},
	}
	for _, o := range opts {
		o(&x)
	}
	if x.f == nil {
		x.f = fetch.New(l)
	}
	return &x
}

// EnablePersistence provides a way to allow the manager to save and
// load snapshots.  If not enabled, Save and Load fail with
// ErrNoStorage.
func (m *Manager) EnablePersistence(s storage.Storage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storage = s
}

// Bootstrap loads the configured repodata, builds the header list
// and parses the component file against it.  A successful Bootstrap
// replaces any previous set and clears the undo history.
func (m *Manager) Bootstrap(ctx context.Context) error {
	policy := fetch.ConstantPolicy(m.cfg.RetryInterval(), m.cfg.Retry.MaxAttempts)

	idx := repo.NewIndexService(m.l, fetch.Retrying(m.f, policy, m.l))
	for _, uri := range m.cfg.RepoDataURLs {
		if err := idx.LoadIndex(ctx, uri); err != nil {
			m.l.Error("Error loading repodata", "uri", uri, "error", err)
			return err
		}
	}
	m.l.Debug("Loaded repodata", "indexes", len(m.cfg.RepoDataURLs), "headers", idx.PkgCount())

	var compat []types.Header
	hopts := []hdrlist.Option{
		hdrlist.WithLogger(m.l),
		hdrlist.WithScorer(arch.ForMachine(m.cfg.Machine)),
	}
	if m.cfg.KeepCompat {
		hopts = append(hopts, hdrlist.WithCompatBucket(&compat))
	}
	if m.cfg.SkipScoring {
		hopts = append(hopts, hdrlist.WithoutScoring())
	}
	hl, err := hdrlist.New(idx.Headers(), hopts...)
	if err != nil {
		m.l.Error("Error building header list", "error", err)
		return err
	}

	set, err := comps.New(ctx, m.f, m.cfg.CompsURL, hl,
		comps.WithLogger(m.l),
		comps.WithArchList(m.cfg.Arches()),
		comps.WithMatchAllLangs(m.cfg.MatchAllLangs),
		comps.WithEnvironment(m.env),
		comps.WithRetryPolicy(policy),
	)
	if err != nil {
		m.l.Error("Error loading components", "uri", m.cfg.CompsURL, "error", err)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.set = set
	m.compat = compat
	m.history = nil
	m.l.Info("Session ready", "components", set.Len(), "packages", hl.Len(), "compat", len(compat), "arches", m.cfg.Arches().String())
	return nil
}

// push records the current state for Undo.  The caller holds the
// lock.
func (m *Manager) push() {
	m.history = append(m.history, m.set.Snapshot())
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

func (m *Manager) component(name string) (*comps.Component, error) {
	if m.set == nil {
		return nil, ErrNotBootstrapped
	}
	c := m.set.Lookup(name)
	if c == nil {
		return nil, ErrNoSuchComponent
	}
	return c, nil
}

func (m *Manager) pkg(name string) (*hdrlist.Package, error) {
	if m.set == nil {
		return nil, ErrNotBootstrapped
	}
	p := m.set.HeaderList().Lookup(name)
	if p == nil {
		return nil, ErrNoSuchPackage
	}
	return p, nil
}

func (m *Manager) withComponent(name string, op string, fn func(*comps.Component)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.component(name)
	if err != nil {
		return err
	}
	m.push()
	fn(c)
	m.l.Debug("Component changed", "op", op, "component", name, "selected", c.IsSelected())
	return nil
}

func (m *Manager) withPackage(name string, op string, fn func(*hdrlist.Package)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.pkg(name)
	if err != nil {
		return err
	}
	m.push()
	fn(p)
	m.l.Debug("Package changed", "op", op, "package", name, "state", p.State(), "selected", p.IsSelected())
	return nil
}

// Select selects a component by name.
func (m *Manager) Select(name string) error {
	return m.withComponent(name, "select", (*comps.Component).Select)
}

// Unselect unselects a component by name.
func (m *Manager) Unselect(name string) error {
	return m.withComponent(name, "unselect", (*comps.Component).Unselect)
}

// ForceSelect pins a package selected regardless of its components.
func (m *Manager) ForceSelect(name string) error {
	return m.withPackage(name, "force-select", (*hdrlist.Package).ForceSelect)
}

// ForceUnselect pins a package unselected regardless of its
// components.
func (m *Manager) ForceUnselect(name string) error {
	return m.withPackage(name, "force-unselect", (*hdrlist.Package).ForceUnselect)
}

// Unforce returns a package to following its components.
func (m *Manager) Unforce(name string) error {
	return m.withPackage(name, "unforce", (*hdrlist.Package).Unforce)
}

// Undo reverts the most recent successful mutation, including a
// snapshot load.
func (m *Manager) Undo() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set == nil {
		return ErrNotBootstrapped
	}
	if len(m.history) == 0 {
		return ErrNothingToUndo
	}
	snap := m.history[len(m.history)-1]
	if err := m.set.Restore(snap); err != nil {
		return err
	}
	m.history = m.history[:len(m.history)-1]
	m.l.Debug("Undone", "remaining", len(m.history))
	return nil
}

func snapshotKey(name string) []byte {
	return []byte(path.Join("snapshot", name))
}

// Save persists the current selection under name, replacing any
// earlier snapshot with the same name.
func (m *Manager) Save(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set == nil {
		return ErrNotBootstrapped
	}
	if m.storage == nil {
		return ErrNoStorage
	}

	b, err := json.Marshal(m.set.Snapshot())
	if err != nil {
		m.l.Warn("Error serializing snapshot", "error", err)
		return err
	}
	if err := m.storage.Put(snapshotKey(name), b); err != nil {
		m.l.Warn("Error writing snapshot", "snapshot", name, "error", err)
		return err
	}
	m.l.Debug("Saved snapshot", "snapshot", name)
	return nil
}

// Load restores a snapshot saved with Save.  The prior state can be
// recovered with Undo.
func (m *Manager) Load(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set == nil {
		return ErrNotBootstrapped
	}
	if m.storage == nil {
		return ErrNoStorage
	}

	b, err := m.storage.Get(snapshotKey(name))
	if err != nil {
		m.l.Warn("Error loading snapshot", "snapshot", name, "error", err)
		return err
	}
	if b == nil {
		return ErrNoSuchSnapshot
	}
	var snap comps.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		m.l.Warn("Error decoding snapshot", "snapshot", name, "error", err)
		return err
	}

	prev := m.set.Snapshot()
	if err := m.set.Restore(snap); err != nil {
		m.l.Warn("Snapshot does not fit this session", "snapshot", name, "error", err)
		return err
	}
	m.history = append(m.history, prev)
	m.l.Debug("Loaded snapshot", "snapshot", name)
	return nil
}

// Snapshots lists the names of saved snapshots, sorted.
func (m *Manager) Snapshots() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage == nil {
		return nil, ErrNoStorage
	}
	keys, err := m.storage.Keys([]byte("snapshot/"))
	if err != nil {
		return nil, err
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strings.TrimPrefix(string(k), "snapshot/")
	}
	sort.Strings(out)
	return out, nil
}
