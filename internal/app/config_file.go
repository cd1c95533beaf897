package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/synapsehq/capture/internal/fetch"
)

// FileConfig is the single-file configuration schema.
type FileConfig struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`

	Fetch struct {
		UA string `yaml:"ua" json:"ua"`
		// Timeout is a duration string like "30s".
		Timeout string `yaml:"timeout" json:"timeout"`
	} `yaml:"fetch" json:"fetch"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any field the
// flags left at its default, so explicit flags keep precedence over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if (cfg.InputPath == "" || cfg.InputPath == InputDefault) && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if (cfg.OutputPath == "" || cfg.OutputPath == OutputDefault) && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if (cfg.UserAgent == "" || cfg.UserAgent == fetch.DefaultUserAgent) && fc.Fetch.UA != "" {
		cfg.UserAgent = fc.Fetch.UA
	}
	if cfg.Timeout == 0 || cfg.Timeout == TimeoutDefault {
		if d, err := time.ParseDuration(fc.Fetch.Timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
