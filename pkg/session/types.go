package session

import (
	"net/http"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/ncomps/pkg/comps"
	"github.com/the-maldridge/ncomps/pkg/config"
	"github.com/the-maldridge/ncomps/pkg/expr"
	"github.com/the-maldridge/ncomps/pkg/fetch"
	"github.com/the-maldridge/ncomps/pkg/storage"
	"github.com/the-maldridge/ncomps/pkg/types"
)

// Manager owns one component set for the lifetime of an installer
// session and serializes every access to it.
type Manager struct {
	// Lock for everything below
	mu *sync.Mutex

	l   hclog.Logger
	cfg *config.Config
	f   fetch.Fetcher
	env expr.Environment

	set     *comps.Set
	compat  []types.Header
	history []comps.Snapshot

	storage storage.Storage
}

// ComponentSummary describes one component and its selection.
type ComponentSummary struct {
	Name         string
	Hidden       bool
	DefaultOn    bool
	Selected     bool
	Manual       bool
	IncludeCount int

	Packages []PackageSummary `json:",omitempty"`
}

// PackageSummary describes one package of a component.
type PackageSummary struct {
	Name        string
	Version     string
	Size        int64
	State       string
	Selected    bool
	Conditional []string `json:",omitempty"`
}

// Summary is the state of a whole session.
type Summary struct {
	Version      string
	Components   []ComponentSummary
	Selected     []string
	Compat       []string `json:",omitempty"`
	TotalSize    int64
	SelectedSize int64
}

// Size is the installed size of everything and of the selection.
type Size struct {
	Total    int64
	Selected int64
}

// APIClient talks to a Manager over HTTP.
type APIClient struct {
	l       hclog.Logger
	hClient *http.Client

	Url string
}
