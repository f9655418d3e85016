package source

import (
	"sync"

	git "github.com/go-git/go-git/v5"
	"github.com/hashicorp/go-hclog"
)

// A RepoMngr gives read access to files inside a git repository.
// When Path is set the repository lives on disk, otherwise Url is
// cloned into memory.
type RepoMngr struct {
	l    hclog.Logger
	Path string
	Url  string
	Mu   *sync.Mutex
	repo *git.Repository
}
