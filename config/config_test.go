package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rsp.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadDecodesAllKeys(t *testing.T) {
	path := writeTemp(t, `
halted = false
log = "rsp.log"
debug = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{Halted: false, Log: "rsp.log", Debug: true}
	if cfg != want {
		t.Fatalf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadEmptyFileYieldsZeroValue(t *testing.T) {
	path := writeTemp(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != (Config{}) {
		t.Fatalf("Load() of empty file = %+v, want zero value", cfg)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeTemp(t, "ucode = \"boot.bin\"\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() with an unknown key should fail")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("Load() of a missing file should fail")
	}
}
