package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeOven(); err != nil {
		return err
	}
	c.normalizeBundle()
	if err := c.normalizeBakeCache(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOven() error {
	c.Oven.Binary = strings.TrimSpace(c.Oven.Binary)
	if c.Oven.Binary == "" {
		if value, ok := os.LookupEnv("HIFI_OVEN"); ok {
			c.Oven.Binary = strings.TrimSpace(value)
		}
	}
	if c.Oven.Binary != "" {
		expanded, err := expandPath(c.Oven.Binary)
		if err != nil {
			return fmt.Errorf("oven.binary: %w", err)
		}
		c.Oven.Binary = expanded
	}
	if c.Oven.BakeTimeout <= 0 {
		c.Oven.BakeTimeout = defaultBakeTimeout
	}
	c.Oven.ModelExtensions = normalizeExtensions(c.Oven.ModelExtensions, defaultModelExtensions())
	c.Oven.TextureExtensions = normalizeExtensions(c.Oven.TextureExtensions, defaultTextureExtensions())
	return nil
}

func (c *Config) normalizeBundle() {
	c.Bundle.URLPrefix = strings.TrimRight(strings.TrimSpace(c.Bundle.URLPrefix), "/")
	if c.Bundle.URLPrefix == "" {
		c.Bundle.URLPrefix = defaultURLPrefix
	}
	c.Bundle.BakedDir = strings.Trim(strings.TrimSpace(c.Bundle.BakedDir), "/")
	if c.Bundle.BakedDir == "" {
		c.Bundle.BakedDir = defaultBakedDir
	}
	c.Bundle.OriginalDir = strings.Trim(strings.TrimSpace(c.Bundle.OriginalDir), "/")
	if c.Bundle.OriginalDir == "" {
		c.Bundle.OriginalDir = defaultOriginalDir
	}
	c.Bundle.EntitiesFile = strings.TrimSpace(c.Bundle.EntitiesFile)
	if c.Bundle.EntitiesFile == "" {
		c.Bundle.EntitiesFile = defaultEntitiesFile
	}
}

func (c *Config) normalizeBakeCache() error {
	c.BakeCache.Path = strings.TrimSpace(c.BakeCache.Path)
	if c.BakeCache.Path == "" {
		c.BakeCache.Path = filepath.Join(c.Paths.CacheDir, "bakecache.db")
	}
	expanded, err := expandPath(c.BakeCache.Path)
	if err != nil {
		return fmt.Errorf("bake_cache.path: %w", err)
	}
	c.BakeCache.Path = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeExtensions(values, fallback []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		normalized = strings.TrimPrefix(normalized, ".")
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
