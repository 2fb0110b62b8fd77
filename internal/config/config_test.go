package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataPath != DefaultDataPath {
		t.Fatalf("data_path = %q, want %q", c.DataPath, DefaultDataPath)
	}
	if len(c.DistributionYears) != 2 || c.DistributionYears[0] != 1975 || c.DistributionYears[1] != 2016 {
		t.Fatalf("distribution_years = %v", c.DistributionYears)
	}
	if c.SampleRows != 5 || c.LogLevel != "info" || c.ReferenceYear != 0 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestSaveThenLoadFromXDGDir(t *testing.T) {
	home := isolate(t)
	want := &Global{DataPath: "/data/bmi.csv", ReferenceYear: 2020, DistributionYears: []int{2000}, SampleRows: 3, LogLevel: "debug", ServerAddr: ":9000"}
	if err := Save(want, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "bmireport", "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DataPath != want.DataPath || got.ReferenceYear != 2020 || got.SampleRows != 3 || got.ServerAddr != ":9000" {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if len(got.DistributionYears) != 1 || got.DistributionYears[0] != 2000 {
		t.Fatalf("distribution_years = %v", got.DistributionYears)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	fc := Defaults()
	fc.DataPath, fc.SampleRows = "file.csv", 2
	if err := Save(&fc, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	t.Setenv("BMIREPORT_DATA_PATH", "env.csv")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataPath != "env.csv" {
		t.Fatalf("data_path = %q, want env.csv", c.DataPath)
	}
	if c.SampleRows != 2 {
		t.Fatalf("sample_rows = %d, want 2", c.SampleRows)
	}
}

func TestLoadMissingExplicitFileUsesDefaults(t *testing.T) {
	isolate(t)
	c, err := Load(filepath.Join(t.TempDir(), "new.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataPath != DefaultDataPath {
		t.Fatalf("data_path = %q", c.DataPath)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("sample_rows: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for negative sample_rows")
	}
}

func TestLoadMatchesDefaults(t *testing.T) {
	isolate(t)
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d := Defaults()
	if c.DataPath != d.DataPath || c.SampleRows != d.SampleRows || c.LogLevel != d.LogLevel ||
		c.ServerAddr != d.ServerAddr || c.ReferenceYear != d.ReferenceYear {
		t.Fatalf("Load() = %+v, want %+v", c, d)
	}
	if len(c.DistributionYears) != len(d.DistributionYears) {
		t.Fatalf("distribution_years = %v, want %v", c.DistributionYears, d.DistributionYears)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Defaults() invalid: %v", err)
	}
}

func TestLoadFileIgnoresEnvAndKeepsBadValues(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("reference_year: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BMIREPORT_DATA_PATH", "env.csv")
	if _, err := Load(path); err == nil {
		t.Fatalf("Load accepted reference_year -1")
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.ReferenceYear != -1 {
		t.Fatalf("reference_year = %d, want -1", c.ReferenceYear)
	}
	if c.DataPath != DefaultDataPath {
		t.Fatalf("data_path = %q, want default (env must not apply)", c.DataPath)
	}
	if c.ServerAddr != Defaults().ServerAddr || c.SampleRows != Defaults().SampleRows {
		t.Fatalf("defaults missing: %+v", c)
	}
}

func TestValidateRejectsZeroSampleRowsAndEmptyAddr(t *testing.T) {
	c := Defaults()
	c.SampleRows = 0
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for sample_rows 0")
	}
	c = Defaults()
	c.ServerAddr = ""
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for empty server_addr")
	}
}
