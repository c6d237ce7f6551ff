package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"bakeset/internal/config"
)

func TestLoadDefaultsExpandPathsAndReadOvenFromEnv(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HIFI_OVEN", filepath.Join(tempHome, "tools", "oven"))

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCache := filepath.Join(tempHome, ".cache", "bakeset")
	if cfg.Paths.CacheDir != wantCache {
		t.Fatalf("unexpected cache dir: got %q want %q", cfg.Paths.CacheDir, wantCache)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, ".local", "share", "bakeset", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	binary, err := cfg.OvenBinary()
	if err != nil {
		t.Fatalf("OvenBinary: %v", err)
	}
	if binary != filepath.Join(tempHome, "tools", "oven") {
		t.Fatalf("expected oven binary from env, got %q", binary)
	}
	if cfg.Oven.BakeTimeout != 600 {
		t.Fatalf("unexpected bake timeout: %d", cfg.Oven.BakeTimeout)
	}
	if got := cfg.Oven.ModelExtensions; len(got) != 1 || got[0] != "fbx" {
		t.Fatalf("unexpected model extensions: %v", got)
	}
	if got := cfg.Oven.TextureExtensions; len(got) != 3 || got[0] != "png" {
		t.Fatalf("unexpected texture extensions: %v", got)
	}
	if cfg.Bundle.URLPrefix != "file:///~/serverless" {
		t.Fatalf("unexpected url prefix: %q", cfg.Bundle.URLPrefix)
	}
	if !cfg.BakeCache.Enabled {
		t.Fatal("expected bake cache enabled by default")
	}
	if cfg.BakeCache.Path != filepath.Join(wantCache, "bakecache.db") {
		t.Fatalf("unexpected bake cache path: %q", cfg.BakeCache.Path)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.CacheDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be a directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "bakeset.toml")

	type payload struct {
		Oven struct {
			Binary            string   `toml:"binary"`
			BakeTimeout       int      `toml:"bake_timeout"`
			TextureExtensions []string `toml:"texture_extensions"`
		} `toml:"oven"`
		Bundle struct {
			URLPrefix string `toml:"url_prefix"`
		} `toml:"bundle"`
		BakeCache struct {
			Enabled bool `toml:"enabled"`
		} `toml:"bake_cache"`
	}
	custom := payload{}
	custom.Oven.Binary = filepath.Join(tempDir, "oven")
	custom.Oven.BakeTimeout = 42
	custom.Oven.TextureExtensions = []string{".PNG", "png", "ktx"}
	custom.Bundle.URLPrefix = "file:///~/content/"
	custom.BakeCache.Enabled = false

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Oven.BakeTimeout != 42 {
		t.Fatalf("unexpected bake timeout: %d", cfg.Oven.BakeTimeout)
	}
	if got := cfg.Oven.TextureExtensions; len(got) != 2 || got[0] != "png" || got[1] != "ktx" {
		t.Fatalf("expected deduplicated lowercase extensions, got %v", got)
	}
	if cfg.Bundle.URLPrefix != "file:///~/content" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Bundle.URLPrefix)
	}
	if cfg.BakeCache.Enabled {
		t.Fatal("expected bake cache disabled")
	}
}

func TestLoadRejectsBadLoggingValues(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "bakeset.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected error for unsupported log format")
	}
	if !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOvenBinaryMissing(t *testing.T) {
	t.Setenv("HIFI_OVEN", "")
	cfg := config.Default()
	cfg.Oven.Binary = ""
	if _, err := cfg.OvenBinary(); err == nil {
		t.Fatal("expected error when oven binary is unset")
	}
}
