package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, body string) string {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	_, err = wt.Add(name)
	require.NoError(t, err)
	h, err := wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return h.String()
}

func TestReadFileAtRevisions(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	first := commitFile(t, repo, dir, "base/comps", "3\n")
	second := commitFile(t, repo, dir, "base/comps", "4\n")

	r := New(hclog.NewNullLogger())
	r.Path = dir
	require.NoError(t, r.Bootstrap(context.Background()))

	at, err := r.At()
	require.NoError(t, err)
	assert.Equal(t, second, at)

	b, err := r.ReadFile("HEAD", "base/comps")
	require.NoError(t, err)
	assert.Equal(t, "4\n", string(b))

	b, err = r.ReadFile(first, "base/comps")
	require.NoError(t, err)
	assert.Equal(t, "3\n", string(b))

	_, err = r.ReadFile("HEAD", "missing")
	assert.ErrorIs(t, err, object.ErrFileNotFound)
}

func TestNotBootstrapped(t *testing.T) {
	r := New(hclog.NewNullLogger())

	_, err := r.At()
	assert.ErrorIs(t, err, ErrNotBootstrapped)
	_, err = r.ReadFile("HEAD", "x")
	assert.ErrorIs(t, err, ErrNotBootstrapped)
	assert.ErrorIs(t, r.Fetch(context.Background()), ErrNotBootstrapped)
	assert.Error(t, r.Bootstrap(context.Background()))
}
