package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/ncomps/pkg/comps"
)

// RemoteError is an error reported by the server.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Is maps status codes back onto the errors that produce them so
// that callers can use errors.Is on either side of the wire.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrNothingToUndo:
		return e.Code == http.StatusConflict && e.Message == target.Error()
	case ErrNoSuchComponent, ErrNoSuchPackage, ErrNoSuchSnapshot:
		return e.Code == http.StatusNotFound && e.Message == target.Error()
	case comps.ErrSnapshotMismatch:
		return e.Code == http.StatusConflict && e.Message == target.Error()
	case ErrNotBootstrapped, ErrNoStorage:
		return e.Code == http.StatusServiceUnavailable && e.Message == target.Error()
	}
	return false
}

// NewAPIClient creates a new API client.
func NewAPIClient(l hclog.Logger) *APIClient {
	x := APIClient{
		l:       l.Named("client"),
		hClient: &http.Client{Timeout: 30 * time.Second},
	}
	return &x
}

// General function to perform a request and decode the response into
// out, which may be nil.
func (c *APIClient) do(ctx context.Context, method, endpoint string, out interface{}) error {
	if c.Url == "" {
		c.l.Warn("Url not set for API", "endpoint", endpoint)
		return fmt.Errorf("api url is not set")
	}

	base := c.Url
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	fullUrl := strings.TrimSuffix(base, "/") + "/api/session" + endpoint

	var body io.Reader
	if method == http.MethodPost {
		body = bytes.NewBufferString("{}")
	}
	req, err := http.NewRequestWithContext(ctx, method, fullUrl, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hClient.Do(req)
	if err != nil {
		c.l.Warn("Unable to reach API", "endpoint", endpoint, "method", method, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct{ Error string }
		json.NewDecoder(resp.Body).Decode(&e)
		return &RemoteError{Code: resp.StatusCode, Message: e.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if s, ok := out.(*string); ok {
		b, err := io.ReadAll(resp.Body)
		*s = string(b)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func named(prefix, name, suffix string) string {
	return prefix + "/" + url.PathEscape(name) + suffix
}

// Summary fetches the session summary.
func (c *APIClient) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	err := c.do(ctx, http.MethodGet, "/summary", &out)
	return out, err
}

// Render fetches the text rendering of the component set.
func (c *APIClient) Render(ctx context.Context) (string, error) {
	var out string
	err := c.do(ctx, http.MethodGet, "/render", &out)
	return out, err
}

// Components lists the components.
func (c *APIClient) Components(ctx context.Context) ([]ComponentSummary, error) {
	var out []ComponentSummary
	err := c.do(ctx, http.MethodGet, "/components", &out)
	return out, err
}

// Component describes one component with its packages.
func (c *APIClient) Component(ctx context.Context, name string) (ComponentSummary, error) {
	var out ComponentSummary
	err := c.do(ctx, http.MethodGet, named("/components", name, ""), &out)
	return out, err
}

// Selected lists the selected package names.
func (c *APIClient) Selected(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/selected", &out)
	return out, err
}

// Size fetches the total and selected installed size.
func (c *APIClient) Size(ctx context.Context) (Size, error) {
	var out Size
	err := c.do(ctx, http.MethodGet, "/size", &out)
	return out, err
}

// Snapshots lists saved snapshot names.
func (c *APIClient) Snapshots(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/snapshots", &out)
	return out, err
}

// Select selects a component.
func (c *APIClient) Select(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, named("/components", name, "/select"), nil)
}

// Unselect unselects a component.
func (c *APIClient) Unselect(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, named("/components", name, "/unselect"), nil)
}

// ForceSelect pins a package selected.
func (c *APIClient) ForceSelect(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, named("/packages", name, "/force-select"), nil)
}

// ForceUnselect pins a package unselected.
func (c *APIClient) ForceUnselect(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, named("/packages", name, "/force-unselect"), nil)
}

// Unforce releases a pinned package.
func (c *APIClient) Unforce(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, named("/packages", name, "/unforce"), nil)
}

// Undo reverts the last change.
func (c *APIClient) Undo(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/undo", nil)
}

// Save stores the current selection under name.
func (c *APIClient) Save(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, named("/snapshots", name, ""), nil)
}

// Load restores a saved selection.
func (c *APIClient) Load(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, named("/snapshots", name, "/restore"), nil)
}
