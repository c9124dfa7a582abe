package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pedsim.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("addr = %q, want :8000", cfg.Server.Addr)
	}
	if cfg.Validation.MaxDuration != 300 {
		t.Errorf("max duration = %v, want 300", cfg.Validation.MaxDuration)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
engine:
  seed: 42
  strict_spawning: true
kinematics:
  social_frequency: 8
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Engine.Seed != 42 || !cfg.Engine.StrictSpawning {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Kinematics.SocialFrequency != 8 {
		t.Errorf("social frequency = %v, want 8", cfg.Kinematics.SocialFrequency)
	}
	// Untouched fields keep their defaults.
	if cfg.Server.MaxStoredRuns != 100 {
		t.Errorf("max stored runs = %d, want default 100", cfg.Server.MaxStoredRuns)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"zero stored runs": "server:\n  max_stored_runs: -1\n",
		"budget too large": "engine:\n  path_budget_ratio: 1.5\n",
		"bad yaml":         "server: [\n",
	}
	for name, content := range cases {
		if _, err := Load(writeConfig(t, content)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestEngineConfig_Mapping(t *testing.T) {
	cfg := Default()
	cfg.Engine.Seed = 7
	cfg.Engine.StrictSpawning = true
	cfg.Kinematics.SocialFrequency = 10

	ec := cfg.EngineConfig()
	if ec.Seed != 7 || !ec.StrictSpawning {
		t.Errorf("engine config = %+v", ec)
	}
	if ec.Spawner.MaxAttempts != 15 {
		t.Errorf("strict spawning must select the strict spawner profile, got %+v", ec.Spawner)
	}
	if ec.Kinematics.SocialFrequency != 10 {
		t.Errorf("social frequency = %v, want 10", ec.Kinematics.SocialFrequency)
	}
}
