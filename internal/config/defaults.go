package config

const (
	defaultMediaRoot         = "~/.local/share/mediaforge/media"
	defaultLogDir            = "~/.local/share/mediaforge/logs"
	defaultHTTPBind          = "127.0.0.1:8970"
	defaultStorageEndpoint   = "127.0.0.1:9000"
	defaultStorageRegion     = "us-east-1"
	defaultStorageBucket     = "mediaforge"
	defaultPresignExpiry     = 3600
	defaultWorkerCount       = 2
	defaultPollInterval      = 2
	defaultJobTimeout        = 3600
	defaultErrorMessageLimit = 4000
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MediaRoot: defaultMediaRoot,
			LogDir:    defaultLogDir,
			HTTPBind:  defaultHTTPBind,
		},
		Storage: Storage{
			Endpoint:      defaultStorageEndpoint,
			Region:        defaultStorageRegion,
			Bucket:        defaultStorageBucket,
			PresignExpiry: defaultPresignExpiry,
		},
		Workers: Workers{
			Count:             defaultWorkerCount,
			PollInterval:      defaultPollInterval,
			JobTimeout:        defaultJobTimeout,
			ErrorMessageLimit: defaultErrorMessageLimit,
		},
		FFmpeg: FFmpeg{
			Binary: "ffmpeg",
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
