// Package fetch retrieves component files and repository indexes
// from local files, web servers and git repositories.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/zstd"

	"github.com/the-maldridge/ncomps/pkg/source"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// New returns a fetch client.
func New(l hclog.Logger, opts ...Option) *Client {
	c := &Client{
		l:          l.Named("fetch"),
		hClient:    &http.Client{Timeout: 30 * time.Second},
		decompress: true,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch retrieves the URI.  Supported forms are plain paths,
// file://path, http(s)://... and git+<url>?ref=<rev>#<path>.
func (c *Client) Fetch(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}

	var b []byte
	switch {
	case u.Scheme == "" || u.Scheme == "file":
		b, err = c.fetchFile(u)
	case u.Scheme == "http" || u.Scheme == "https":
		b, err = c.fetchHTTP(ctx, uri)
	case strings.HasPrefix(u.Scheme, "git+"):
		b, err = c.fetchGit(ctx, u)
	default:
		c.l.Error("URI scheme must be file, http(s) or git+", "uri", uri)
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, u.Scheme)
	}
	if err != nil {
		return nil, err
	}

	if c.decompress {
		return Decompress(b)
	}
	return b, nil
}

func (c *Client) fetchFile(u *url.URL) ([]byte, error) {
	p := u.Path
	if u.Scheme == "" {
		p = u.String()
	}
	c.l.Trace("Reading file", "path", p)
	return os.ReadFile(p)
}

func (c *Client) fetchHTTP(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hClient.Do(req)
	if err != nil {
		return nil, Transient(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, Transient(fmt.Errorf("GET %s: %s", uri, resp.Status))
	default:
		return nil, fmt.Errorf("GET %s: %s", uri, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Transient(err)
	}
	return body, nil
}

// fetchGit reads one file out of a git repository.  Local
// repositories are opened in place, anything else is cloned into
// memory.
func (c *Client) fetchGit(ctx context.Context, u *url.URL) ([]byte, error) {
	file := strings.TrimPrefix(u.Fragment, "/")
	if file == "" {
		return nil, fmt.Errorf("git uri %q has no #path", u.String())
	}
	rev := u.Query().Get("ref")
	if rev == "" {
		rev = "HEAD"
	}

	inner := *u
	inner.Scheme = strings.TrimPrefix(u.Scheme, "git+")
	inner.RawQuery = ""
	inner.Fragment = ""

	repo := source.New(c.l)
	if inner.Scheme == "file" {
		repo.Path = inner.Path
	} else {
		repo.Url = inner.String()
	}
	if err := repo.Bootstrap(ctx); err != nil {
		if errors.Is(err, transport.ErrRepositoryNotFound) ||
			errors.Is(err, transport.ErrAuthenticationRequired) ||
			errors.Is(err, transport.ErrAuthorizationFailed) ||
			repo.Url == "" {
			return nil, err
		}
		return nil, Transient(err)
	}

	b, err := repo.ReadFile(rev, file)
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, fmt.Errorf("%s: %w", file, os.ErrNotExist)
	}
	return b, err
}

// IsZstd reports whether b starts with a zstd frame.
func IsZstd(b []byte) bool {
	return bytes.HasPrefix(b, zstdMagic)
}

// Decompress returns b with a leading zstd frame decoded.  Other
// input is returned unchanged.
func Decompress(b []byte) ([]byte, error) {
	if !IsZstd(b) {
		return b, nil
	}
	d, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return d.DecodeAll(b, nil)
}
