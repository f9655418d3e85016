package types

// A Header is the slice of package metadata that the selection
// engine reads.  Headers come from a repodata index or are built by
// hand in tests; nothing else about the underlying package format is
// carried here.
type Header struct {
	Name    string
	Version string `plist:"pkgver"`
	Arch    string `plist:"architecture"`
	Size    int64  `plist:"installed_size"`

	// InstallOrder is optional.  When every header of a list
	// carries one the list is considered preordered.
	InstallOrder *int `plist:"install-order,omitempty"`
}

// HasInstallOrder reports whether the optional install order
// attribute was present.
func (h Header) HasInstallOrder() bool {
	return h.InstallOrder != nil
}
