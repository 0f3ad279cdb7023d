package config

import (
	"os"
	"strconv"
)

// FromEnv overlays ULID_* environment variables onto cfg. Unparsable values
// are ignored.
func FromEnv(cfg *Config) {
	if v := os.Getenv("ULID_SORT_ABBREVIATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Sort.Abbreviate = b
		}
	}
	if v := os.Getenv("ULID_SORT_MIN_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sort.MinRows = n
		}
	}
	if v := os.Getenv("ULID_SORT_MIN_VALUES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Sort.MinValues = n
		}
	}
	if v := os.Getenv("ULID_SORT_CONFIRM_CARDINALITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Sort.ConfirmCardinality = f
		}
	}
	if v := os.Getenv("ULID_SORT_VALUES_PER_DISTINCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Sort.ValuesPerDistinct = f
		}
	}
	if v := os.Getenv("ULID_SORT_FUDGE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Sort.Fudge = f
		}
	}
	if v := os.Getenv("ULID_SORT_SKETCH_PRECISION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sort.SketchPrecision = n
		}
	}
	if v := os.Getenv("ULID_SORT_DECODE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sort.DecodeWorkers = n
		}
	}
	if v := os.Getenv("ULID_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ULID_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ULID_INDEX_DATA_DIR"); v != "" {
		cfg.Index.DataDir = v
	}
	if v := os.Getenv("ULID_INDEX_FSYNC"); v != "" {
		cfg.Index.Fsync = v
	}
	if v := os.Getenv("ULID_INDEX_FSYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Index.FsyncIntervalMs = n
		}
	}
}
