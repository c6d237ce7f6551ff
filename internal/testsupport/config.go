package testsupport

import (
	"path/filepath"
	"testing"

	"bakeset/internal/config"
)

// NewConfig returns a default config rooted in a temp directory, with the
// bake cache disabled so tests opt in explicitly.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.BakeCache.Enabled = false
	cfg.BakeCache.Path = filepath.Join(base, "cache", "bakecache.db")
	cfg.Oven.Binary = filepath.Join(base, "oven")
	return &cfg
}
