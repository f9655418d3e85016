package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/the-maldridge/ncomps/pkg/arch"
	"github.com/the-maldridge/ncomps/pkg/fetch"
	"github.com/the-maldridge/ncomps/pkg/types"
)

// NewConfig returns a config object with default structures
// initialized.  The config can be loaded from other sources to
// override the defaults.
func NewConfig() *Config {
	m := arch.Machine()
	return &Config{
		CompsURL: "file://comps",
		RepoDataURLs: []string{
			"https://repo-default.voidlinux.org/current/" + m + "-repodata",
		},
		Machine: m,
		Storage: "bitcask",
		Bind:    ":8080",
		Retry: RetryConfig{
			IntervalSeconds: 5,
		},
	}
}

// LoadFromFile does as the name suggests, and loads the config from a
// file
func (c *Config) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	return dec.Decode(c)
}

// Arches returns the arch list expressions are evaluated against:
// the configured list if any, the machine's compat list otherwise.
func (c *Config) Arches() types.ArchList {
	if len(c.ArchList) > 0 {
		return types.ArchList(c.ArchList)
	}
	return arch.Compatible(c.Machine)
}

// RetryInterval returns the configured pause between fetch attempts.
// A missing or non-positive interval falls back to the fetch default.
func (c *Config) RetryInterval() time.Duration {
	if c.Retry.IntervalSeconds <= 0 {
		return fetch.DefaultInterval
	}
	return time.Duration(c.Retry.IntervalSeconds) * time.Second
}
