// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the optional YAML configuration of the command line tool.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/GoogleCloudPlatform/ssrecover/constants"
	"sigs.k8s.io/yaml"
)

// Config holds tool settings. Fields absent from the file keep their defaults.
type Config struct {
	// Workers is the number of combinations interpolated concurrently.
	Workers int `json:"workers"`
	// Format is the report format, "text" or "yaml".
	Format string `json:"format"`
	// Color highlights text reports on a terminal.
	Color bool `json:"color"`
	// CoefficientDigits is the decimal width of random coefficients used by `split`.
	CoefficientDigits int `json:"coefficientDigits"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Workers:           constants.DefaultWorkers,
		Format:            constants.FormatText,
		CoefficientDigits: constants.DefaultCoefficientDigits,
	}
}

// DefaultPath returns the location of the default configuration file.
func DefaultPath() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory location: %w", err)
	}
	return filepath.Join(cfgDir, constants.DefaultConfigName), nil
}

// Load reads the configuration at path on top of Default(). A missing file is
// only an error when `required` is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	yamlBytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(yamlBytes, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting is in range.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.CoefficientDigits < 1 {
		return fmt.Errorf("coefficientDigits must be at least 1, got %d", c.CoefficientDigits)
	}
	switch c.Format {
	case constants.FormatText, constants.FormatYAML:
		return nil
	default:
		return fmt.Errorf("unknown report format %q", c.Format)
	}
}
