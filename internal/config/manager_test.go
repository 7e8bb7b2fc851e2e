package config

import (
	"os"
	"path/filepath"
	"testing"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return &Manager{configDir: filepath.Join(t.TempDir(), "aware")}
}

func TestLoadMissingConfig(t *testing.T) {
	m := testManager(t)

	if m.Exists() {
		t.Error("Exists() = true before any save")
	}
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("Got %+v, want an empty config", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	m := testManager(t)

	want := &Config{
		LLMProvider:   "openai",
		APIKey:        "sk-test",
		Model:         "gpt-4o-mini",
		MaxIterations: 10,
	}
	if err := m.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !m.Exists() {
		t.Error("Exists() = false after save")
	}

	got, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != *want {
		t.Errorf("Got %+v, want %+v", got, want)
	}
}

func TestSavePermissions(t *testing.T) {
	m := testManager(t)
	if err := m.Save(&Config{APIKey: "secret"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(m.GetConfigPath())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Got permissions %o, want 0600; the file holds an API key", perm)
	}
}

func TestLoadCorruptConfig(t *testing.T) {
	m := testManager(t)
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(m.GetConfigPath(), []byte("{bad"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Load(); err == nil {
		t.Error("Load() accepted corrupt JSON")
	}
}
