package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultIndexDir returns where the identifier index lives when no data
// directory is configured: $XDG_DATA_HOME/ulid/index, then the per-user
// application data location of the host OS, then ./data.
func DefaultIndexDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "ulid", "index")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return filepath.Join(".", "data")
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "ulid", "index")
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "ulid", "index")
		}
		return filepath.Join(homeDir, "AppData", "Local", "ulid", "index")
	default:
		return filepath.Join(homeDir, ".local", "share", "ulid", "index")
	}
}

// ResolveIndexDir returns cfg.Index.DataDir, or DefaultIndexDir when it is
// unset.
func ResolveIndexDir(cfg Config) string {
	if cfg.Index.DataDir != "" {
		return cfg.Index.DataDir
	}
	return DefaultIndexDir()
}
