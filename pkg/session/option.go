package session

import (
	"github.com/the-maldridge/ncomps/pkg/expr"
	"github.com/the-maldridge/ncomps/pkg/fetch"
)

// Option configures a Manager.
type Option func(*Manager)

// WithFetcher replaces the default fetcher used for repodata and the
// component file.
func WithFetcher(f fetch.Fetcher) Option {
	return func(m *Manager) {
		m.f = f
	}
}

// WithEnvironment sets where the locale is read from.
func WithEnvironment(env expr.Environment) Option {
	return func(m *Manager) {
		m.env = env
	}
}
