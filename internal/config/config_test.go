package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestInit(t *testing.T) {
	viper.Reset()

	Init()

	if viper.GetInt("version") != 1 {
		t.Errorf("expected version default 1, got %d", viper.GetInt("version"))
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	t.Chdir(dir)

	Init()

	cfg, err := Load("")
	if err != nil {
		t.Errorf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config to be returned")
	}
	if cfg.Path != "" {
		t.Errorf("expected empty path, got %q", cfg.Path)
	}
}

func TestLoad_WithYAMLFile(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := []byte(`name: documents
verbose: true
source:
  type: path
  path: /data/docs
targets:
  - type: ssh
    user: backup
    host: nas.example.com
    port: 2222
    path: /srv/backups/docs
    identity_file: ~/.ssh/id_ed25519
notifications:
  - type: notify-send
transfer:
  exclude:
    - .cache
`)
	if err := os.WriteFile(configPath, content, 0o600); err != nil {
		t.Fatal(err)
	}

	Init()

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Name != "documents" {
		t.Errorf("name = %q", cfg.Name)
	}
	if !cfg.Verbose {
		t.Error("expected verbose")
	}
	if cfg.Source.Type != "path" || cfg.Source.Path != "/data/docs" {
		t.Errorf("source = %+v", cfg.Source)
	}
	if len(cfg.Targets) != 1 {
		t.Fatalf("targets = %+v", cfg.Targets)
	}
	target := cfg.Targets[0]
	if target.Type != "ssh" || target.User != "backup" || target.Host != "nas.example.com" {
		t.Errorf("target = %+v", target)
	}
	if target.Port != 2222 || target.Path != "/srv/backups/docs" {
		t.Errorf("target = %+v", target)
	}
	if target.IdentityFile != "~/.ssh/id_ed25519" {
		t.Errorf("identity_file = %q", target.IdentityFile)
	}
	if len(cfg.Notifications) != 1 || cfg.Notifications[0].Type != "notify-send" {
		t.Errorf("notifications = %+v", cfg.Notifications)
	}
	if len(cfg.Transfer.Exclude) != 1 || cfg.Transfer.Exclude[0] != ".cache" {
		t.Errorf("transfer = %+v", cfg.Transfer)
	}
	if cfg.Path != configPath {
		t.Errorf("path = %q, want %q", cfg.Path, configPath)
	}
}

func TestLoad_WithJSONFile(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	content := []byte(`{
  "source": {"type": "path", "path": "/data/docs"},
  "targets": [{"type": "path", "path": "/backups/docs"}]
}`)
	if err := os.WriteFile(configPath, content, 0o600); err != nil {
		t.Fatal(err)
	}

	Init()

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Source.Path != "/data/docs" {
		t.Errorf("source = %+v", cfg.Source)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].Path != "/backups/docs" {
		t.Errorf("targets = %+v", cfg.Targets)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	viper.Reset()

	Init()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestDisplayName(t *testing.T) {
	cfg := &Config{Name: "documents", Path: "/etc/snaplink/config.yaml"}
	if got := cfg.DisplayName(); got != "documents" {
		t.Errorf("DisplayName() = %q", got)
	}

	cfg = &Config{Path: "/etc/snaplink/config.yaml"}
	if got := cfg.DisplayName(); got != "/etc/snaplink" {
		t.Errorf("DisplayName() = %q", got)
	}

	cfg = &Config{}
	if got := cfg.DisplayName(); got != "snaplink" {
		t.Errorf("DisplayName() = %q", got)
	}
}
