package bundle

import "bakeset/internal/asset"

// Mapping accumulates asset-server paths and the local URLs that replace
// them. Lookups ignore query suffixes.
type Mapping struct {
	entries map[string]string
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{entries: make(map[string]string)}
}

// Add records the replacement URL for an asset-server path.
func (m *Mapping) Add(atpPath, localURL string) {
	m.entries[atpPath] = localURL
}

// Resolve returns the replacement for url, stripping any query suffix before
// the lookup. The second return reports whether a mapping existed.
func (m *Mapping) Resolve(url string) (string, bool) {
	mapped, ok := m.entries[asset.CleanURL(url)]
	return mapped, ok
}

// Len returns the number of mapped assets.
func (m *Mapping) Len() int {
	return len(m.entries)
}
