package coursegen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the course parsing engine.
type Config struct {
	// SourceDir is the directory of source course documents.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// OutputPath is where the serialized course collection is written.
	// Defaults to "courses.json" in the working directory.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// ManifestPath enables the SQLite run ledger when set. Empty
	// disables the ledger entirely.
	ManifestPath string `json:"manifest_path" yaml:"manifest_path"`

	// Concurrency bounds parallel document extraction. Defaults to 4.
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// SkipOutputValidation disables JSON-schema validation of the
	// serialized output before writing. Intended for debugging only.
	SkipOutputValidation bool `json:"skip_output_validation" yaml:"skip_output_validation"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		OutputPath:  "courses.json",
		Concurrency: 4,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.Concurrency < 0 {
		return cfg, fmt.Errorf("%w: concurrency %d is negative", ErrInvalidConfig, cfg.Concurrency)
	}
	return cfg, nil
}
