package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dcbickfo/pg-ulid/pkg/ulid/sortsupport"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	Sort  SortConfig  `json:"sort" yaml:"sort"`
	Log   LogConfig   `json:"log" yaml:"log"`
	Index IndexConfig `json:"index" yaml:"index"`
}

// SortConfig tunes abbreviated-key sorting.
type SortConfig struct {
	Abbreviate         bool    `json:"abbreviate" yaml:"abbreviate"`
	MinRows            int     `json:"minRows" yaml:"minRows"`
	MinValues          int64   `json:"minValues" yaml:"minValues"`
	ConfirmCardinality float64 `json:"confirmCardinality" yaml:"confirmCardinality"`
	ValuesPerDistinct  float64 `json:"valuesPerDistinct" yaml:"valuesPerDistinct"`
	Fudge              float64 `json:"fudge" yaml:"fudge"`
	SketchPrecision    int     `json:"sketchPrecision" yaml:"sketchPrecision"`
	// DecodeWorkers bounds concurrent parsing of input lines.
	DecodeWorkers int `json:"decodeWorkers" yaml:"decodeWorkers"`
}

// LogConfig selects log level, format and sampling.
type LogConfig struct {
	Level            string `json:"level" yaml:"level"`
	Format           string `json:"format" yaml:"format"`
	SampleInitial    int    `json:"sampleInitial" yaml:"sampleInitial"`
	SampleThereafter int    `json:"sampleThereafter" yaml:"sampleThereafter"`
}

// IndexConfig configures the on-disk identifier index.
type IndexConfig struct {
	DataDir         string `json:"dataDir" yaml:"dataDir"`
	Fsync           string `json:"fsync" yaml:"fsync"`
	FsyncIntervalMs int    `json:"fsyncIntervalMs" yaml:"fsyncIntervalMs"`
}

// Default returns built-in defaults.
func Default() Config {
	th := sortsupport.DefaultThresholds()
	return Config{
		Sort: SortConfig{
			Abbreviate:         true,
			MinRows:            th.MinRows,
			MinValues:          th.MinValues,
			ConfirmCardinality: th.ConfirmCardinality,
			ValuesPerDistinct:  th.ValuesPerDistinct,
			Fudge:              th.Fudge,
			SketchPrecision:    int(th.SketchPrecision),
			DecodeWorkers:      4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Index: IndexConfig{
			Fsync:           "always",
			FsyncIntervalMs: 5,
		},
	}
}

// Thresholds converts the sort section into decision parameters.
func (c SortConfig) Thresholds() sortsupport.Thresholds {
	return sortsupport.Thresholds{
		MinRows:            c.MinRows,
		MinValues:          c.MinValues,
		ConfirmCardinality: c.ConfirmCardinality,
		ValuesPerDistinct:  c.ValuesPerDistinct,
		Fudge:              c.Fudge,
		SketchPrecision:    uint8(c.SketchPrecision),
	}
}

// Load reads configuration from a JSON or YAML file (by extension) on top
// of the defaults. If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
