package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/maylog/bonealign/adapters/clock"
	"github.com/maylog/bonealign/adapters/memory"
	"github.com/maylog/bonealign/adapters/scenefile"
	"github.com/maylog/bonealign/adapters/sqlite"
	"github.com/maylog/bonealign/app"
	"github.com/maylog/bonealign/config"
	"github.com/maylog/bonealign/ports"
)

// session bundles everything one CLI invocation needs: the loaded scene, the
// settings database and the command service on top of them.
type session struct {
	cfg     *config.Config
	host    *memory.SceneHost
	db      *sqlite.DB
	service *app.Service
}

// openSession loads config, scene and settings and wires the service.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Scene.Path == "" {
		return nil, fmt.Errorf("no scene file: pass --scene or set scene.path in %s", cfgFile)
	}
	logger := newLogger(cfg)

	host, err := scenefile.Load(cfg.Scene.Path)
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	store := sqlite.NewSettingsStore(db)

	// A config default of case-insensitive matching seeds the session flag
	// once; after that the settings store owns it.
	if !cfg.Matching.CaseSensitive {
		if _, err := store.Get(context.Background(), ports.SettingCaseSensitive); errors.Is(err, ports.ErrNotFound) {
			if err := store.Set(context.Background(), ports.SettingCaseSensitive, "false"); err != nil {
				db.Close()
				return nil, err
			}
		}
	}

	// --case-sensitive overrides the stored flag for this run without
	// touching the database.
	var settings ports.SettingsStore = store
	if caseSensitive != "" {
		v, err := strconv.ParseBool(caseSensitive)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("--case-sensitive must be true or false, got %q", caseSensitive)
		}
		overlay := memory.NewSettingsStore()
		if err := overlay.Set(context.Background(), ports.SettingCaseSensitive, strconv.FormatBool(v)); err != nil {
			db.Close()
			return nil, err
		}
		settings = overlay
	}

	return &session{
		cfg:     cfg,
		host:    host,
		db:      db,
		service: app.NewService(host, settings, clock.Real{}, logger),
	}, nil
}

// Close releases the session's resources.
func (s *session) Close() {
	s.db.Close()
}

// invoke runs one command, prints its outcome, and writes the scene back on
// success. A cancelled outcome is reported as an error so the process exits
// non-zero.
func (s *session) invoke(ctx context.Context, id app.CommandID) error {
	outcome, err := s.service.Invoke(ctx, id)
	if err != nil {
		return err
	}
	printOutcome(outcome)

	if outcome.Status == app.StatusCancelled {
		return fmt.Errorf("command %s cancelled", id)
	}
	if !noSave {
		if err := scenefile.Save(s.cfg.Scene.Path, s.host); err != nil {
			return err
		}
	}
	return nil
}

// printOutcome writes the outcome's messages to stdout, one per line with a
// severity prefix, or the whole outcome as JSON with --json.
func printOutcome(o app.Outcome) {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(o)
		return
	}
	for _, m := range o.Report.Messages {
		fmt.Printf("[%s] %s\n", strings.ToUpper(string(m.Severity)), m.Text)
	}
}
