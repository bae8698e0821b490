package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Field.MaxDistance != 180 {
		t.Errorf("expected max_distance 180, got %v", cfg.Field.MaxDistance)
	}
	if cfg.Field.BurstCount != 15 {
		t.Errorf("expected burst_count 15, got %d", cfg.Field.BurstCount)
	}
	if cfg.Field.PointerIdle != 100*time.Millisecond {
		t.Errorf("expected pointer_idle 100ms, got %v", cfg.Field.PointerIdle)
	}
	if len(cfg.Field.Colors) != 8 {
		t.Errorf("expected 8 palette colours, got %d", len(cfg.Field.Colors))
	}
}

func TestCountsFor(t *testing.T) {
	c := DefaultField().Counts
	cases := []struct {
		width float64
		want  int
	}{
		{320, 50},
		{767.9, 50},
		{768, 100},
		{1199, 100},
		{1200, 150},
		{2560, 150},
	}
	for _, tc := range cases {
		if got := c.For(tc.width); got != tc.want {
			t.Errorf("For(%v) = %d, want %d", tc.width, got, tc.want)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glowfield.yml")

	original := DefaultConfig()
	original.Seed = 42
	original.LogLevel = "debug"
	original.Field.MaxDistance = 150
	original.Field.LinkMode = LinkGrid
	original.Field.PointerIdle = 250 * time.Millisecond
	original.Field.Colors = []string{"#FFFFFF", "#000000"}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Seed != 42 {
		t.Errorf("seed: got %d, want 42", loaded.Seed)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("log_level: got %q, want debug", loaded.LogLevel)
	}
	if loaded.Field.MaxDistance != 150 {
		t.Errorf("max_distance: got %v, want 150", loaded.Field.MaxDistance)
	}
	if loaded.Field.LinkMode != LinkGrid {
		t.Errorf("link_mode: got %q, want grid", loaded.Field.LinkMode)
	}
	if loaded.Field.PointerIdle != 250*time.Millisecond {
		t.Errorf("pointer_idle: got %v, want 250ms", loaded.Field.PointerIdle)
	}
	if len(loaded.Field.Colors) != 2 || loaded.Field.Colors[0] != "#FFFFFF" {
		t.Errorf("colors: got %v", loaded.Field.Colors)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.yml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Field.Counts.Large != 150 {
		t.Errorf("expected default large count, got %d", cfg.Field.Counts.Large)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GLOWFIELD_FIELD__MAX_DISTANCE", "90")
	t.Setenv("GLOWFIELD_LOG_LEVEL", "error")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Field.MaxDistance != 90 {
		t.Errorf("expected env override max_distance 90, got %v", cfg.Field.MaxDistance)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected env override log_level error, got %q", cfg.LogLevel)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("field: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty palette", func(c *Config) { c.Field.Colors = nil }},
		{"bad colour", func(c *Config) { c.Field.Colors = []string{"teal"} }},
		{"bad highlight", func(c *Config) { c.Field.HighlightColors["service"] = "#12" }},
		{"zero distance", func(c *Config) { c.Field.MaxDistance = 0 }},
		{"zero size", func(c *Config) { c.Field.ParticleSize = Range{} }},
		{"link mode", func(c *Config) { c.Field.LinkMode = "quadtree" }},
		{"hidden factor", func(c *Config) { c.Field.HiddenFactor = 2 }},
		{"window", func(c *Config) { c.Window.Width = 0 }},
		{"fps", func(c *Config) { c.Terminal.FPS = 0 }},
		{"inspect addr", func(c *Config) { c.Inspect.Enabled = true; c.Inspect.Addr = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#FF1493")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if c.R != 0xFF || c.G != 0x14 || c.B != 0x93 || c.A != 0xFF {
		t.Fatalf("unexpected colour %+v", c)
	}
	if _, err := ParseColor("nope"); err == nil {
		t.Fatal("expected error for invalid colour")
	}
}
