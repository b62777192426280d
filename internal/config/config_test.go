package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Model.DefaultURL != DefaultModelURL {
		t.Errorf("expected default url %s, got %s", DefaultModelURL, cfg.Model.DefaultURL)
	}
	if cfg.Model.FetchTimeout != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v", cfg.Model.FetchTimeout)
	}
	if cfg.Render.Material != "matcap" {
		t.Errorf("expected material matcap, got %s", cfg.Render.Material)
	}
	if cfg.Render.FOV != 75 {
		t.Errorf("expected fov 75, got %v", cfg.Render.FOV)
	}
	if cfg.Controls.Damping != 0.05 {
		t.Errorf("expected damping 0.05, got %v", cfg.Controls.Damping)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  vsync: false

model:
  default_url: "https://example.com/part.stl"
  z_up: true
  simplify: 0.25
  fetch_timeout: 5s

render:
  material: depth
  background: "#202020"
  fov: 50

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Model.DefaultURL != "https://example.com/part.stl" {
		t.Errorf("unexpected default url %s", cfg.Model.DefaultURL)
	}
	if !cfg.Model.ZUp {
		t.Error("expected z_up to be true")
	}
	if cfg.Model.Simplify != 0.25 {
		t.Errorf("expected simplify 0.25, got %v", cfg.Model.Simplify)
	}
	if cfg.Model.FetchTimeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.Model.FetchTimeout)
	}
	if cfg.Render.Material != "depth" {
		t.Errorf("expected material depth, got %s", cfg.Render.Material)
	}
	if cfg.BackgroundColor() != (color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 255}) {
		t.Errorf("unexpected background %v", cfg.BackgroundColor())
	}
	if cfg.Render.FOV != 50 {
		t.Errorf("expected fov 50, got %v", cfg.Render.FOV)
	}
	// untouched sections keep their defaults
	if cfg.Controls.Damping != 0.05 {
		t.Errorf("expected default damping, got %v", cfg.Controls.Damping)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"fov":        "render:\n  fov: 0\n",
		"simplify":   "model:\n  simplify: 2\n",
		"background": "render:\n  background: white\n",
		"damping":    "controls:\n  damping: -1\n",
		"size":       "window:\n  width: 0\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "stlview.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find stlview.yaml in current directory")
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	yamlContent := `
window:
  width: 1600
  height: 900
model:
  watch: true
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := BindFlags(fs)
	if err := fs.Parse([]string{"--config", configPath, "--width", "1920", "--watch=false", "-m", "normal", "--debug"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := flags.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
	if cfg.Model.Watch {
		t.Error("expected --watch=false to override the file")
	}
	if cfg.Render.Material != "normal" {
		t.Errorf("expected material normal, got %s", cfg.Render.Material)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug logging, got %s", cfg.Logging.Level)
	}
}

func TestUnsetFlagsKeepFile(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := BindFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Model.Watch = true
	cfg.Model.ZUp = true
	flags.Apply(cfg)

	if !cfg.Model.Watch || !cfg.Model.ZUp {
		t.Error("unset boolean flags overrode the config")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Render.Material = "normal"
	cfg.Model.FetchTimeout = 3 * time.Second
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if loaded.Render.Material != "normal" {
		t.Errorf("expected material normal, got %s", loaded.Render.Material)
	}
	if loaded.Model.FetchTimeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %v", loaded.Model.FetchTimeout)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.RGBA{
		"#ffffff": {R: 255, G: 255, B: 255, A: 255},
		"102030":  {R: 0x10, G: 0x20, B: 0x30, A: 255},
	}
	for in, expected := range cases {
		got, err := ParseColor(in)
		if err != nil {
			t.Errorf("ParseColor(%q) failed: %v", in, err)
			continue
		}
		if got != expected {
			t.Errorf("ParseColor(%q): expected %v, got %v", in, expected, got)
		}
	}

	for _, in := range []string{"", "#fff", "#gggggg"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q): expected error", in)
		}
	}
}

func TestDefaultPathInConfigDir(t *testing.T) {
	if got := DefaultPath(); filepath.Dir(got) != ConfigDir() || filepath.Base(got) != "config.yaml" {
		t.Errorf("unexpected default path %s", got)
	}
}
