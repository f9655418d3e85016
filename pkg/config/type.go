package config

// Config represents the complete application configuration that
// ncomps supports.
type Config struct {
	CompsURL     string
	RepoDataURLs []string

	Machine       string
	ArchList      []string
	MatchAllLangs bool
	SkipScoring   bool
	KeepCompat    bool

	Storage string
	Bind    string

	Retry RetryConfig
}

// RetryConfig controls how often a transient fetch failure is
// retried.  A MaxAttempts of 0 retries forever.
type RetryConfig struct {
	IntervalSeconds int
	MaxAttempts     int
}
