// Package config handles application configuration loading and
// management.
package config

// Config holds all application settings.
type Config struct {
	Mesh    MeshConfig    `yaml:"mesh"`
	Rack    RackConfig    `yaml:"rack"`
	Logging LoggingConfig `yaml:"logging"`
}

// MeshConfig holds incremental meshing settings.
type MeshConfig struct {
	LinearDeflection  float64 `yaml:"linear_deflection"`  // model units
	AngularDeflection float64 `yaml:"angular_deflection"` // radians
	Parallel          bool    `yaml:"parallel"`
}

// RackConfig holds the variant library and rack grid settings. The
// beam dimensions are catalog values in millimeters.
type RackConfig struct {
	VariantCount int     `yaml:"variant_count"`
	Slots        int     `yaml:"slots"`
	Bays         int     `yaml:"bays"`
	Floors       int     `yaml:"floors"`
	BeamLengthMM float64 `yaml:"beam_length_mm"`
	BeamWidthMM  float64 `yaml:"beam_width_mm"`
	BeamDepthMM  float64 `yaml:"beam_depth_mm"`
	BeamStepMM   float64 `yaml:"beam_step_mm"`
	Pattern      string  `yaml:"pattern"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Mesh: MeshConfig{
			LinearDeflection:  0.1,
			AngularDeflection: 0.5,
			Parallel:          false,
		},
		Rack: RackConfig{
			VariantCount: 1000,
			Slots:        40,
			Bays:         25,
			Floors:       12,
			BeamLengthMM: 2700,
			BeamWidthMM:  50,
			BeamDepthMM:  110,
			BeamStepMM:   20,
			Pattern:      "step",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
