package fetch

import (
	"net/http"
)

// WithHTTPClient replaces the HTTP client used for http(s) URIs.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.hClient = c
	}
}

// WithDecompression controls whether zstd frames are decompressed
// before being returned.  It is on by default.
func WithDecompression(b bool) Option {
	return func(cl *Client) {
		cl.decompress = b
	}
}
