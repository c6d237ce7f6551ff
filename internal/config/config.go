package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// Oven contains configuration for the external baking tool.
type Oven struct {
	// Binary is the oven executable path. Falls back to $HIFI_OVEN when empty.
	Binary string `toml:"binary"`
	// BakeTimeout bounds a single bake invocation, in seconds.
	BakeTimeout int `toml:"bake_timeout"`
	// ModelExtensions are baked as meshes (oven -t fbx).
	ModelExtensions []string `toml:"model_extensions"`
	// TextureExtensions are baked as textures (oven -t texture).
	TextureExtensions []string `toml:"texture_extensions"`
}

// Bundle contains configuration for serverless bundle layout and URL rewriting.
type Bundle struct {
	URLPrefix    string `toml:"url_prefix"`
	BakedDir     string `toml:"baked_dir"`
	OriginalDir  string `toml:"original_dir"`
	EntitiesFile string `toml:"entities_file"`
}

// BakeCache contains configuration for the bake result cache.
type BakeCache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for bakeset.
//
// Configuration sections by subsystem:
//   - Paths: cache and log directories
//   - Oven: external baking tool binary, timeout, and bakeable extensions
//   - Bundle: serverless output layout and local URL prefix
//   - BakeCache: sqlite-backed bake result cache
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Oven      Oven      `toml:"oven"`
	Bundle    Bundle    `toml:"bundle"`
	BakeCache BakeCache `toml:"bake_cache"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/bakeset/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("bakeset.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories bakeset needs at runtime.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.BakeCache.Enabled {
		dirs = append(dirs, c.Paths.CacheDir, filepath.Dir(c.BakeCache.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// OvenBinary returns the configured oven executable, or an error when neither
// the config nor the HIFI_OVEN environment variable provided one.
func (c *Config) OvenBinary() (string, error) {
	binary := strings.TrimSpace(c.Oven.Binary)
	if binary == "" {
		return "", errors.New("oven binary not configured; set oven.binary or export HIFI_OVEN")
	}
	return binary, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "bakeset")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/bakeset"
	}
	return filepath.Join(home, ".cache", "bakeset")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
