// Package config loads settings for the ulid tooling. It exposes a
// Default() baseline, file loading, and an environment overlay.
//
// Example:
//
//	cfg := config.Default()
//	// Optionally load from file and overlay env vars
//	if fileCfg, err := config.Load("/etc/ulid.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	sorter := sortsupport.NewSorter(sortsupport.SorterConfig{
//	    DisableAbbreviation: !cfg.Sort.Abbreviate,
//	}, sortsupport.WithThresholds(cfg.Sort.Thresholds()))
package config
