package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-parsejson/pkg/config"
	"github.com/goliatone/go-parsejson/pkg/submit"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "PARSEJSON_HOST", "PARSEJSON_RENDER_MODE"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:5000" {
		t.Fatalf("Addr = %q", cfg.Addr())
	}
	if cfg.Mode() != submit.ModeCompact {
		t.Fatalf("Mode = %q", cfg.Mode())
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parsejson.yaml")
	content := []byte("host: 127.0.0.1\nport: 8080\nrender_mode: pretty\ntimeout: 3s\nlog_format: json\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "9090")
	for _, key := range []string{"PARSEJSON_HOST", "PARSEJSON_RENDER_MODE", "PARSEJSON_TIMEOUT", "PARSEJSON_LOG_FORMAT"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	want := config.Default()
	want.Host = "127.0.0.1"
	want.Port = 9090
	want.RenderMode = "pretty"
	want.Timeout = 3 * time.Second
	want.LogFormat = "json"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Port = 0
	cfg.RenderMode = "fancy"
	cfg.LogFormat = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateTemplatesDir(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.TemplatesDir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("existing directory rejected: %v", err)
	}

	cfg.TemplatesDir = filepath.Join(cfg.TemplatesDir, "missing")
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for missing templates_dir")
	}
}
