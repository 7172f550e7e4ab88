// Package config loads the CLI defaults from a YAML file, so recurring
// options like the seam finding strategy or the face cascade location do
// not have to be repeated on every invocation. Command line flags always
// override the file values.
package config

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	Carving struct {
		// Strategy selects the seam finding implementation, "dp" or "greedy".
		Strategy string `yaml:"strategy"`

		// SeamColor is the hex color used to paint removed seams.
		SeamColor string `yaml:"seamColor"`

		// Scale enables proportional Lanczos pre-scaling before carving.
		Scale bool `yaml:"scale"`
	} `yaml:"carving"`

	Face struct {
		// Detect enables face protection.
		Detect bool `yaml:"detect"`

		// CascadeFile is the path of the binary classification cascade.
		CascadeFile string `yaml:"cascadeFile"`

		// Angle is the face rotation angle passed to the classifier.
		Angle float64 `yaml:"angle"`
	} `yaml:"face"`

	Runtime struct {
		// Workers caps the number of images processed concurrently in
		// directory mode.
		Workers int `yaml:"workers"`

		// Debug lowers the log level to debug.
		Debug bool `yaml:"debug"`
	} `yaml:"runtime"`
}

// Default returns a configuration with default values.
func Default() *Config {
	cfg := &Config{}

	cfg.Carving.Strategy = "dp"
	cfg.Carving.SeamColor = "#ff0000"

	cfg.Runtime.Workers = runtime.NumCPU()

	return cfg
}

// Load reads the configuration from a YAML file, with defaults for every
// omitted value. A missing file is not an error; the defaults are
// returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "error reading config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing config file")
	}
	return cfg, nil
}
