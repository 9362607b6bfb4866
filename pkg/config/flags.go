package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagVariants = flag.Int("variants", 0, "Variant library size")
	flagParallel = flag.Bool("parallel", false, "Mesh faces in parallel")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagVariants > 0 {
		cfg.Rack.VariantCount = *flagVariants
	}
	if *flagParallel {
		cfg.Mesh.Parallel = true
	}
}
