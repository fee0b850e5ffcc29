package config

import "prism/internal/corpus"

const (
	defaultConfigPath       = "~/.config/prism/config.toml"
	defaultDataDir          = "~/.local/share/prism/data"
	defaultCacheDirFallback = "~/.cache/prism"
	defaultLogDir           = "~/.local/share/prism/logs"
	defaultProtocol         = "SRE10_c05_f"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			CacheDir: defaultCacheDir(),
			LogDir:   defaultLogDir,
		},
		Corpus: Corpus{
			Databases: append([]string(nil), corpus.Databases...),
		},
		Protocol: Protocol{
			Default: defaultProtocol,
		},
		Cache: Cache{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
