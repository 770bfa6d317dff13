package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrand != "sine" {
		t.Errorf("expected integrand sine, got %s", cfg.Integrand)
	}
	if cfg.P <= 0 {
		t.Error("p should be positive")
	}
	if cfg.TFinal <= cfg.TInit {
		t.Error("bounds should be ordered")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := DefaultConfig()
	cfg.Integrand = "gauss"
	cfg.Atol = 1e-10
	cfg.Params = map[string]float64{"center": 0.3, "width": 0.01}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Integrand != "gauss" || loaded.Atol != 1e-10 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
	if loaded.Params["center"] != 0.3 {
		t.Errorf("params lost: %+v", loaded.Params)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(path, []byte("integrand: line\natol: 1e-4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Integrand != "line" || cfg.Atol != 1e-4 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.P != DefaultP || cfg.MaxRounds != DefaultMaxRounds {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty integrand", func(c *Config) { c.Integrand = "" }},
		{"zero order", func(c *Config) { c.P = 0 }},
		{"negative atol", func(c *Config) { c.Atol = -1 }},
		{"both tolerances zero", func(c *Config) { c.Atol = 0; c.Rtol = 0 }},
		{"inverted bounds", func(c *Config) { c.TInit = 1; c.TFinal = 0 }},
		{"single seed point", func(c *Config) { c.InitPoints = 1 }},
		{"negative spacing", func(c *Config) { c.MinSpacing = -0.1 }},
		{"zero rounds", func(c *Config) { c.MaxRounds = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("sine", "oscillatory")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Params["freq"] != 20 {
		t.Errorf("expected freq 20, got %f", cfg.Params["freq"])
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		t.Errorf("normalized preset should validate: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("sine", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "gentle"); cfg != nil {
		t.Error("expected nil for nonexistent integrand")
	}
}

func TestListPresets(t *testing.T) {
	if presets := ListPresets("sine"); len(presets) == 0 {
		t.Error("expected presets for sine")
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent integrand")
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for integrand, group := range Presets {
		for name, preset := range group {
			cfg := *preset
			cfg.Normalize()
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", integrand, name, err)
			}
		}
	}
}
