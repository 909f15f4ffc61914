package config

const (
	defaultSlicerExecutable       = "Slicer"
	defaultRegistrationIterations = 1500
	defaultRegistrationSampling   = 0.05
	defaultRegistrationTimeout    = 3600
	defaultExtractionTimeout      = 1800
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultManifestEnabled        = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Slicer: Slicer{
			Executable: defaultSlicerExecutable,
		},
		Registration: Registration{
			Iterations: defaultRegistrationIterations,
			Sampling:   defaultRegistrationSampling,
			Timeout:    defaultRegistrationTimeout,
		},
		Extraction: Extraction{
			Timeout: defaultExtractionTimeout,
		},
		Manifest: Manifest{
			Enabled: defaultManifestEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
