package repo

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"sort"

	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/zstd"
	"howett.net/plist"

	"github.com/the-maldridge/ncomps/pkg/fetch"
	"github.com/the-maldridge/ncomps/pkg/types"
)

// ErrNoIndex is returned for repodata archives without an
// index.plist.
var ErrNoIndex = errors.New("repodata has no index.plist")

// IndexService collects package headers from one or more repodata
// indexes.  Headers are kept in load order so that several indexes
// for different architectures can be deduplicated later.
type IndexService struct {
	l hclog.Logger
	f fetch.Fetcher

	headers []types.Header
}

// NewIndexService creates an IndexService
func NewIndexService(l hclog.Logger, f fetch.Fetcher) *IndexService {
	is := IndexService{
		l: l.Named("IndexService"),
		f: f,
	}
	return &is
}

// LoadIndex retrieves an index and appends its headers.
func (is *IndexService) LoadIndex(ctx context.Context, uri string) error {
	indexBytes, err := is.f.Fetch(ctx, uri)
	if err != nil {
		return err
	}

	hdrs, err := ParseRepoData(indexBytes)
	if err != nil {
		is.l.Error("Error parsing repodata", "uri", uri, "error", err)
		return err
	}
	is.headers = append(is.headers, hdrs...)
	is.l.Debug("Loaded repodata", "uri", uri, "count", len(hdrs))
	return nil
}

// PkgCount is a quick check of how many headers have been loaded.
func (is *IndexService) PkgCount() int {
	return len(is.headers)
}

// Headers returns every header loaded so far.
func (is *IndexService) Headers() []types.Header {
	out := make([]types.Header, len(is.headers))
	copy(out, is.headers)
	return out
}

// ParseRepoData decodes a repodata archive, compressed or not, into
// headers ordered by name.
//
// Heavily inspired and simplified from the generalized reader in
// Duncaen's go-xbps project.
func ParseRepoData(indexBytes []byte) ([]types.Header, error) {
	var r io.Reader = bytes.NewReader(indexBytes)
	if fetch.IsZstd(indexBytes) {
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer d.Close()
		r = d
	}

	tarchive := tar.NewReader(r)

	// Iterate through the tar and pick out the index list.  This
	// contains the package metadata that we're interested in.
	for {
		header, err := tarchive.Next()
		switch err {
		case nil:
		case io.EOF:
			return nil, ErrNoIndex
		default:
			return nil, err
		}

		if header.Name != "index.plist" {
			continue
		}

		buf := &bytes.Buffer{}
		if _, err := buf.ReadFrom(tarchive); err != nil {
			return nil, err
		}
		return decodeIndex(buf.Bytes())
	}
}

func decodeIndex(b []byte) ([]types.Header, error) {
	idx := make(map[string]types.Header)
	if err := plist.NewDecoder(bytes.NewReader(b)).Decode(&idx); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(idx))
	for n := range idx {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]types.Header, len(names))
	for i, n := range names {
		h := idx[n]
		h.Name = n
		out[i] = h
	}
	return out, nil
}
