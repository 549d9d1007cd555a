package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/maylog/bonealign/adapters/memory"
	"github.com/maylog/bonealign/config"
	"github.com/maylog/bonealign/ports"
)

func TestApplyConfigChange_LogLevel(t *testing.T) {
	old := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(old)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg := config.Default()
	cfg.Logging.Level = "debug"
	applyConfigChange(cfg, memory.NewSettingsStore(), zerolog.Nop())

	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("global level = %v, want debug", zerolog.GlobalLevel())
	}
}

func TestApplyConfigChange_MatchingDefault(t *testing.T) {
	ctx := context.Background()
	old := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(old)

	t.Run("seeds when unset", func(t *testing.T) {
		store := memory.NewSettingsStore()
		cfg := config.Default()
		cfg.Matching.CaseSensitive = false

		applyConfigChange(cfg, store, zerolog.Nop())

		v, err := store.Get(ctx, ports.SettingCaseSensitive)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if v != "false" {
			t.Errorf("seeded value = %q, want %q", v, "false")
		}
	})

	t.Run("stored flag wins", func(t *testing.T) {
		store := memory.NewSettingsStore()
		if err := store.Set(ctx, ports.SettingCaseSensitive, "true"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		cfg := config.Default()
		cfg.Matching.CaseSensitive = false

		applyConfigChange(cfg, store, zerolog.Nop())

		if v, _ := store.Get(ctx, ports.SettingCaseSensitive); v != "true" {
			t.Errorf("stored flag = %q, want untouched %q", v, "true")
		}
	})
}

func TestWatchConfig_ReloadAppliesChanges(t *testing.T) {
	old := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(old)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	path := filepath.Join(t.TempDir(), "bonealign.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	store := memory.NewSettingsStore()
	holder, err := watchConfig(path, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("watchConfig failed: %v", err)
	}
	defer holder.Stop()

	next := "logging:\n  level: debug\nmatching:\n  case_sensitive: false\n"
	if err := os.WriteFile(path, []byte(next), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := holder.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("global level after reload = %v, want debug", zerolog.GlobalLevel())
	}
	if v, err := store.Get(context.Background(), ports.SettingCaseSensitive); err != nil || v != "false" {
		t.Errorf("matching default not applied: value = %q, err = %v", v, err)
	}
}
