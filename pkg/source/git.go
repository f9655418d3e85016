package source

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	git "github.com/go-git/go-git/v5"
	gitPlumbing "github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/hashicorp/go-hclog"
)

// ErrNotBootstrapped is returned when the repository is used before
// Bootstrap.
var ErrNotBootstrapped = errors.New("repository is not bootstrapped")

// New creates a new instance of RepoMngr
func New(l hclog.Logger) *RepoMngr {
	x := RepoMngr{
		l:  l.Named("git"),
		Mu: new(sync.Mutex),
	}
	return &x
}

// Bootstrap makes the repository available.  An existing repository
// at Path is opened, a missing one is cloned from Url, and with no
// Path the clone is kept in memory.
func (r *RepoMngr) Bootstrap(ctx context.Context) error {
	var err error
	if r.Path == "" && r.Url == "" {
		r.l.Warn("Error in repo manager, path or url must be set to bootstrap")
		return errors.New("no path or url")
	}
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Path == "" {
		r.l.Debug("Cloning repository into memory", "url", r.Url)
		r.repo, err = git.CloneContext(ctx, memory.NewStorage(), nil,
			&git.CloneOptions{URL: r.Url, NoCheckout: true})
		return err
	}

	if _, statErr := os.Stat(r.Path); statErr == nil || r.Url == "" {
		r.l.Debug("Opening repository", "path", r.Path)
		r.repo, err = git.PlainOpen(r.Path)
		return err
	}

	r.l.Debug("Cloning repository", "path", r.Path, "url", r.Url)
	r.repo, err = git.PlainCloneContext(ctx, r.Path, false, &git.CloneOptions{URL: r.Url})
	if err != nil {
		r.l.Trace("Error running PlainClone")
		return err
	}
	return nil
}

// At returns the current HEAD hash.
func (r *RepoMngr) At() (string, error) {
	if r.repo == nil {
		return "", ErrNotBootstrapped
	}
	head, err := r.repo.Head()
	if err != nil {
		r.l.Trace("Error getting HEAD")
		return "", err
	}
	return head.Hash().String(), nil
}

// ReadFile returns the contents of name as of the given revision.
// Any revision git understands works: hashes, branches, tags, HEAD.
func (r *RepoMngr) ReadFile(rev, name string) ([]byte, error) {
	if r.repo == nil {
		return nil, ErrNotBootstrapped
	}
	r.Mu.Lock()
	defer r.Mu.Unlock()

	hash, err := r.repo.ResolveRevision(gitPlumbing.Revision(rev))
	if err != nil {
		r.l.Trace("Error resolving revision", "rev", rev)
		return nil, err
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		r.l.Trace("Error getting CommitObject", "hash", hash.String())
		return nil, err
	}
	f, err := commit.File(name)
	if err != nil {
		return nil, err
	}
	rd, err := f.Reader()
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	r.l.Trace("Reading file from git", "rev", rev, "commit", hash.String(), "file", name)
	return io.ReadAll(rd)
}
