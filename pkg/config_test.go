package mcfit

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfigFile(t, `{
		"verbosity": 2,
		"vd": [0, 0.5, -5.2],
		"clock": 12.5,
		"shape": 0.28,
		"mass_num": 1,
		"ioniz": 10.0,
		"no_db": true,
		"pad_pitch": 0.1,
		"pad_cols": 10,
		"pad_rows": 10,
		"file_in": "tracks.txt",
		"file_out": "run.h5",
		"overflow_policy": "fail",
		"num_workers": 4
	}`)

	config, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration returned error: %v", err)
	}

	if config.Verbosity != 2 {
		t.Errorf("Verbosity = %d, want 2", config.Verbosity)
	}
	if config.Vd != [3]float64{0, 0.5, -5.2} {
		t.Errorf("Vd = %v, want [0 0.5 -5.2]", config.Vd)
	}
	if config.Clock != 12.5 {
		t.Errorf("Clock = %v, want 12.5", config.Clock)
	}
	if !config.NoDB {
		t.Error("NoDB should be set")
	}
	if config.Overflow != OverflowFail {
		t.Errorf("Overflow = %q, want %q", config.Overflow, OverflowFail)
	}
	if config.NumWorkers != 4 {
		t.Errorf("NumWorkers = %d, want 4", config.NumWorkers)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	path := writeConfigFile(t, `{"verbosity": 0}`)

	config, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration returned error: %v", err)
	}
	if config.Overflow != OverflowDrop {
		t.Errorf("Overflow = %q, want default %q", config.Overflow, OverflowDrop)
	}
	if config.NumWorkers != 1 {
		t.Errorf("NumWorkers = %d, want default 1", config.NumWorkers)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigurationBadJSON(t *testing.T) {
	path := writeConfigFile(t, `{"verbosity": `)
	if _, err := LoadConfiguration(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
