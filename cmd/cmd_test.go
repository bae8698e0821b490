package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iburimskiy/glowfield/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		initForce = false
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "glowfield dev") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glowfield.yaml")

	if _, err := run(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.Field.MaxDistance != config.MaxDistance {
		t.Fatalf("written config has max_distance %v", cfg.Field.MaxDistance)
	}

	if _, err := run(t, "config", "init", "--config", path); err == nil {
		t.Fatal("second init should refuse to overwrite")
	}
	if _, err := run(t, "config", "init", "--config", path, "--force"); err != nil {
		t.Fatalf("forced init: %v", err)
	}

	t.Setenv("GLOWFIELD_FIELD__MOUSE_RADIUS", "42")
	out, err := run(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "mouse_radius: 42") {
		t.Fatalf("env override missing from output:\n%s", out)
	}
}
