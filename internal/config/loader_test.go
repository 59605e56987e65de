package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendFile {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if cfg.DefaultTimeout != 30*time.Second {
		t.Errorf("timeout = %v", cfg.DefaultTimeout)
	}
	if cfg.DataDir == "" {
		t.Error("data dir default not applied")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
data_dir: /tmp/restman-test
backend: sqlite
default_timeout: 5s
verify_ssl: false
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/tmp/restman-test" {
		t.Errorf("data dir = %q", cfg.DataDir)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if cfg.DefaultTimeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.DefaultTimeout)
	}
	if cfg.VerifySSL {
		t.Error("verify_ssl = true, want override applied")
	}
}

func TestLoadFromMalformedFile(t *testing.T) {
	path := writeConfig(t, "backend: [broken")
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFromUnknownBackend(t *testing.T) {
	path := writeConfig(t, "backend: redis")
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected unknown backend error")
	}
}
