package fetch

import (
	"context"
	"net/http"

	"github.com/hashicorp/go-hclog"
)

// A Fetcher returns the bytes behind a URI.  Failures wrapping
// ErrTransient may be retried.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, uri string) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return f(ctx, uri)
}

// Client fetches file, http(s) and git+ URIs.
type Client struct {
	l hclog.Logger

	hClient    *http.Client
	decompress bool
}

// An Option configures a Client.
type Option func(*Client)
