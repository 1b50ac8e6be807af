package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Cache.Backend != "file" || cfg.Store.Backend != "jsonl" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigFull(t *testing.T) {
	path := writeConfig(t, `
output_dir = "/data/plates"
format = "jpg"
workers = 8
font_dirs = ["/usr/share/fonts/noto"]
han_font = "NotoSansSC-Bold"

[cache]
backend = "redis"
addr = "localhost:6379"

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"
database = "plates"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.OutputDir != "/data/plates" || cfg.Format != "jpg" || cfg.Workers != 8 {
		t.Errorf("top-level fields: %+v", cfg)
	}
	if len(cfg.FontDirs) != 1 || cfg.HanFont != "NotoSansSC-Bold" {
		t.Errorf("font fields: %+v", cfg)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.Addr != "localhost:6379" {
		t.Errorf("cache section: %+v", cfg.Cache)
	}
	if cfg.Store.Backend != "mongo" || cfg.Store.Database != "plates" {
		t.Errorf("store section: %+v", cfg.Store)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `format = "png"`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("partial config should keep cache default, got %q", cfg.Cache.Backend)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", `format = `},
		{"bad cache backend", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
		{"bad store backend", "[store]\nbackend = \"sqlite\""},
		{"mongo without uri", "[store]\nbackend = \"mongo\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
