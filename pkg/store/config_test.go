package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AMAL_CONFIG_PATH", t.TempDir())
	s, err := loadConfig(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Backend != BackendDisk {
		t.Fatalf("expected disk backend, got %q", s.Backend)
	}
	if !strings.HasSuffix(s.BasePath(), ".amal.db") || strings.HasPrefix(s.BasePath(), "~") {
		t.Fatalf("expected expanded default path, got %q", s.BasePath())
	}
	if s.OrderCooldown != time.Second {
		t.Fatalf("expected 1s cooldown, got %v", s.OrderCooldown)
	}
	if s.ServerAddr != ":8080" || s.AgendaPriority != "routine,meeting,task" {
		t.Fatalf("unexpected defaults %+v", s)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "user: alice\nbackend: memory\nagenda:\n  priority: task,meeting,routine\nserver:\n  secret: shh\n"
	if err := os.WriteFile(filepath.Join(dir, ".amal.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AMAL_CONFIG_PATH", dir)
	t.Setenv("AMAL_USER", "bob")
	t.Setenv("AMAL_ORDER_COOLDOWN", "250ms")

	s, err := loadConfig(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.User != "bob" {
		t.Fatalf("expected env to win over file, got %q", s.User)
	}
	if s.Backend != BackendMemory || s.AgendaPriority != "task,meeting,routine" || s.ServerSecret != "shh" {
		t.Fatalf("expected file values, got %+v", s)
	}
	if s.OrderCooldown != 250*time.Millisecond {
		t.Fatalf("expected 250ms cooldown, got %v", s.OrderCooldown)
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("AMAL_CONFIG_PATH", t.TempDir())
	t.Setenv("AMAL_BACKEND", "sqlite")
	if _, err := loadConfig(viper.New()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
