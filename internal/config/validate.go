package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration values for structural problems. Values that
// only matter at bake time (like the oven binary) are checked where they are
// used so read-only commands still work without them.
func (c *Config) Validate() error {
	if c.Oven.BakeTimeout <= 0 {
		return fmt.Errorf("oven.bake_timeout must be positive, got %d", c.Oven.BakeTimeout)
	}
	if len(c.Oven.ModelExtensions) == 0 && len(c.Oven.TextureExtensions) == 0 {
		return fmt.Errorf("oven: at least one bakeable extension is required")
	}
	for _, ext := range append(append([]string{}, c.Oven.ModelExtensions...), c.Oven.TextureExtensions...) {
		if strings.ContainsAny(ext, "/\\.") {
			return fmt.Errorf("oven: extension %q must be a bare suffix without dots or separators", ext)
		}
	}
	if !strings.Contains(c.Bundle.URLPrefix, "://") {
		return fmt.Errorf("bundle.url_prefix %q must be a URL", c.Bundle.URLPrefix)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
