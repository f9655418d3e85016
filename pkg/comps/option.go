package comps

import (
	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/ncomps/pkg/expr"
	"github.com/the-maldridge/ncomps/pkg/types"
)

// An Option configures a Set before its component file is parsed.
type Option func(*Set)

// WithLogger sets the parent logger.
func WithLogger(l hclog.Logger) Option {
	return func(s *Set) {
		s.l = l.Named("comps")
	}
}

// WithArchList sets the architectures arch expressions are checked
// against.  The default is the compat list of the running machine.
func WithArchList(al types.ArchList) Option {
	return func(s *Set) {
		s.arches = al
	}
}

// WithMatchAllLangs makes every lang expression succeed.
func WithMatchAllLangs(b bool) Option {
	return func(s *Set) {
		s.matchAllLangs = b
	}
}

// WithEnvironment sets where the locale is read from.
func WithEnvironment(env expr.Environment) Option {
	return func(s *Set) {
		s.env = env
	}
}

// WithRetryPolicy sets how transient fetch failures are retried.
// The policy constructor is called once per fetch.
func WithRetryPolicy(p func() backoff.BackOff) Option {
	return func(s *Set) {
		s.retry = p
	}
}
