package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/TIANLI0/StatScan/barscan"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProfiles(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":9090"
analyzer:
  default_profile: dark
  queue_timeout: 5s
profiles:
  dark:
    metric: euclidean
    edge_color: "#fffff1"
    border_color: [200, 200, 200]
    background_colors: ["#101010"]
    tolerances:
      fill: 40
    rows:
      strategy: color
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != ":9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Analyzer.QueueTimeout != 5*time.Second {
		t.Errorf("queue_timeout = %v", cfg.Analyzer.QueueTimeout)
	}
	if cfg.Analyzer.MaxConcurrent != 4 {
		t.Errorf("max_concurrent default lost: %d", cfg.Analyzer.MaxConcurrent)
	}

	dark, ok := cfg.Profiles["dark"]
	if !ok {
		t.Fatal("profile dark missing")
	}
	if dark.Name != "dark" || dark.Metric != barscan.EuclideanSquared || dark.Rows.Strategy != barscan.RowsByColor {
		t.Errorf("dark = %+v", dark)
	}
	if dark.EdgeColor != barscan.RGB(255, 255, 241) || dark.BorderColor != barscan.RGB(200, 200, 200) {
		t.Errorf("colours: edge=%v border=%v", dark.EdgeColor, dark.BorderColor)
	}
	if len(dark.BackgroundColors) != 1 || dark.BackgroundColors[0] != barscan.RGB(16, 16, 16) {
		t.Errorf("background_colors = %v", dark.BackgroundColors)
	}
	if dark.Tolerances.Fill != 40 || dark.Tolerances.Border != 250 {
		t.Errorf("tolerances = %+v", dark.Tolerances)
	}
	if len(dark.Bars) != 6 {
		t.Errorf("bars = %d, want defaults kept", len(dark.Bars))
	}

	if _, ok := cfg.Profiles["default"]; !ok {
		t.Error("default profile missing")
	}
	if names := ProfileNames(cfg.Profiles); strings.Join(names, ",") != "dark,default" {
		t.Errorf("ProfileNames = %v", names)
	}
}

func TestLoadReplacesBars(t *testing.T) {
	path := writeConfig(t, `
profiles:
  two:
    bars:
      - name: HP
        fill: "#fce37e"
        row_ratio: 0.2
      - name: MP
        label: Mana
        fill: {r: 10, g: 20, b: 200}
        row_ratio: 0.6
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	bars := cfg.Profiles["two"].Bars
	if len(bars) != 2 {
		t.Fatalf("bars = %+v", bars)
	}
	if bars[1].Name != "MP" || bars[1].Fill != barscan.RGB(10, 20, 200) || bars[1].DisplayName() != "Mana" {
		t.Errorf("bar[1] = %+v", bars[1])
	}
	if bars[0].DisplayName() != "HP" {
		t.Errorf("bar[0] display name = %q", bars[0].DisplayName())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad colour", "profiles:\n  x:\n    edge_color: \"#12\"\n"},
		{"bad component", "profiles:\n  x:\n    edge_color: [1, 2, 300]\n"},
		{"invalid profile", "profiles:\n  x:\n    metric: cosine\n"},
		{"unknown default", "analyzer:\n  default_profile: nope\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("STATSCAN_SERVER_PORT", ":7070")
	t.Setenv("STATSCAN_ANALYZER_MAX_CONCURRENT", "9")

	cfg, err := Load(writeConfig(t, "server:\n  mode: release\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != ":7070" || cfg.Analyzer.MaxConcurrent != 9 {
		t.Errorf("env not applied: port=%q max_concurrent=%d", cfg.Server.Port, cfg.Analyzer.MaxConcurrent)
	}
	if cfg.Server.Mode != "release" {
		t.Errorf("mode = %q", cfg.Server.Mode)
	}
}

func TestDefaultsWithoutFile(t *testing.T) {
	cfg, err := decode(newViper())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != ":8080" || cfg.Server.StaticDir != "./static" || cfg.Upload.MaxSize != 10*1024*1024 {
		t.Errorf("defaults = %+v", cfg)
	}
	if _, ok := cfg.Profiles[cfg.Analyzer.DefaultProfile]; !ok {
		t.Error("default profile missing")
	}
}
