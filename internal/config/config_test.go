package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.Sort.Abbreviate {
		t.Fatalf("abbreviation should default to on")
	}
	th := cfg.Sort.Thresholds()
	if th.MinRows != 10000 || th.MinValues != 10000 {
		t.Fatalf("minimums: %+v", th)
	}
	if th.ConfirmCardinality != 100000 || th.ValuesPerDistinct != 2000 || th.Fudge != 0.5 {
		t.Fatalf("decision thresholds: %+v", th)
	}
	if th.SketchPrecision != 10 {
		t.Fatalf("sketch precision default")
	}
	if cfg.Index.Fsync != "always" {
		t.Fatalf("fsync default")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ulid.json")
	data := []byte(`{"sort":{"abbreviate":false,"minRows":500,"fudge":1.5},"log":{"level":"debug"}}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Sort.Abbreviate {
		t.Fatalf("expected false")
	}
	if cfg.Sort.MinRows != 500 || cfg.Sort.Fudge != 1.5 {
		t.Fatalf("sort overrides not applied: %+v", cfg.Sort)
	}
	if cfg.Sort.MinValues != 10000 {
		t.Fatalf("unset fields should keep defaults")
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected debug")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ulid.yaml")
	data := []byte("sort:\n  confirmCardinality: 5000\n  sketchPrecision: 12\nindex:\n  dataDir: /srv/ulid\n  fsync: interval\n")
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Sort.ConfirmCardinality != 5000 || cfg.Sort.SketchPrecision != 12 {
		t.Fatalf("yaml sort section: %+v", cfg.Sort)
	}
	if cfg.Index.DataDir != "/srv/ulid" || cfg.Index.Fsync != "interval" {
		t.Fatalf("yaml index section: %+v", cfg.Index)
	}
	if !cfg.Sort.Abbreviate {
		t.Fatalf("defaults lost")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	file := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(file, []byte("sort: [unclosed"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil {
		t.Fatalf("expected parse error")
	}
	cfg, err := Load("")
	if err != nil || !cfg.Sort.Abbreviate {
		t.Fatalf("empty path should return defaults")
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("ULID_SORT_ABBREVIATE", "false")
	t.Setenv("ULID_SORT_MIN_ROWS", "24")
	t.Setenv("ULID_SORT_VALUES_PER_DISTINCT", "100.5")
	t.Setenv("ULID_SORT_SKETCH_PRECISION", "not-a-number")
	t.Setenv("ULID_LOG_FORMAT", "json")
	t.Setenv("ULID_INDEX_DATA_DIR", "/tmp/ix")
	FromEnv(&cfg)
	if cfg.Sort.Abbreviate {
		t.Fatalf("env override bool")
	}
	if cfg.Sort.MinRows != 24 {
		t.Fatalf("env override min rows")
	}
	if cfg.Sort.ValuesPerDistinct != 100.5 {
		t.Fatalf("env override float")
	}
	if cfg.Sort.SketchPrecision != 10 {
		t.Fatalf("invalid env value should be ignored")
	}
	if cfg.Log.Format != "json" || cfg.Index.DataDir != "/tmp/ix" {
		t.Fatalf("env override strings")
	}
}
