package config

import "path/filepath"

const (
	defaultLogDir       = "~/.local/share/bakeset/logs"
	defaultBakeTimeout  = 600
	defaultURLPrefix    = "file:///~/serverless"
	defaultBakedDir     = "baked"
	defaultOriginalDir  = "original"
	defaultEntitiesFile = "models.json"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

func defaultModelExtensions() []string {
	return []string{"fbx"}
}

func defaultTextureExtensions() []string {
	return []string{"png", "jpg", "tga"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	cacheDir := defaultCacheDir()
	return Config{
		Paths: Paths{
			CacheDir: cacheDir,
			LogDir:   defaultLogDir,
		},
		Oven: Oven{
			BakeTimeout:       defaultBakeTimeout,
			ModelExtensions:   defaultModelExtensions(),
			TextureExtensions: defaultTextureExtensions(),
		},
		Bundle: Bundle{
			URLPrefix:    defaultURLPrefix,
			BakedDir:     defaultBakedDir,
			OriginalDir:  defaultOriginalDir,
			EntitiesFile: defaultEntitiesFile,
		},
		BakeCache: BakeCache{
			Enabled: true,
			Path:    filepath.Join(cacheDir, "bakecache.db"),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
