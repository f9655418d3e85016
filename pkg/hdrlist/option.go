package hdrlist

import (
	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/ncomps/pkg/arch"
	"github.com/the-maldridge/ncomps/pkg/types"
)

// An Option configures how a HeaderList is built.
type Option func(*HeaderList)

// WithLogger sets the parent logger.
func WithLogger(l hclog.Logger) Option {
	return func(hl *HeaderList) {
		hl.l = l.Named("hdrlist")
	}
}

// WithScorer sets the arch scorer used for deduplication.  The
// default scores against the running machine.
func WithScorer(s arch.Scorer) Option {
	return func(hl *HeaderList) {
		hl.score = s
	}
}

// WithCompatBucket collects headers that lose deduplication instead
// of discarding them.
func WithCompatBucket(b *[]types.Header) Option {
	return func(hl *HeaderList) {
		hl.compat = b
	}
}

// WithoutScoring skips arch scoring entirely; every header is kept
// and later duplicates overwrite earlier ones.
func WithoutScoring() Option {
	return func(hl *HeaderList) {
		hl.noScore = true
	}
}
