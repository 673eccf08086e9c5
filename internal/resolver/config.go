package resolver

import (
	"encoding/json"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Config carries the engine binary locations. Zero fields fall back to
// plain command names looked up on $PATH.
type Config struct {
	UVPath         string `mapstructure:"uvPath"`
	PipCompilePath string `mapstructure:"pipCompilePath"`
}

// DefaultConfig resolves engines from $PATH.
func DefaultConfig() Config {
	return Config{
		UVPath:         "uv",
		PipCompilePath: "pip-compile",
	}
}

// LoadConfig reads a JSON engine-path map. A missing file is not an error;
// defaults are returned instead.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	} else if err != nil {
		return Config{}, errors.Wrap(err, "resolver: reading config")
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Config{}, errors.Wrapf(err, "resolver: parsing config %s", path)
	}

	var overrides Config
	if err := mapstructure.Decode(fields, &overrides); err != nil {
		return Config{}, errors.Wrapf(err, "resolver: decoding config %s", path)
	}
	if overrides.UVPath != "" {
		config.UVPath = overrides.UVPath
	}
	if overrides.PipCompilePath != "" {
		config.PipCompilePath = overrides.PipCompilePath
	}
	return config, nil
}
