package config

const (
	defaultConfigPath       = "~/.config/assetbridge/config.toml"
	defaultHost             = "127.0.0.1"
	defaultPort             = 8080
	defaultCORSOrigin       = ""
	defaultMaxBodyBytes     = 8 << 20
	defaultMaxPaths         = 5000
	defaultDestination      = "~/Pictures/assetbridge"
	defaultStateDir         = "~/.local/share/assetbridge"
	defaultClipboardBackend = "auto"
	defaultClipboardTimeout = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Host:         defaultHost,
			Port:         defaultPort,
			LoopbackOnly: true,
			CORSOrigin:   defaultCORSOrigin,
			MaxBodyBytes: defaultMaxBodyBytes,
			MaxPaths:     defaultMaxPaths,
		},
		Transfer: Transfer{
			DefaultDestination: defaultDestination,
		},
		Clipboard: Clipboard{
			Backend:        defaultClipboardBackend,
			TimeoutSeconds: defaultClipboardTimeout,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
