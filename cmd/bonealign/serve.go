package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maylog/bonealign/adapters/clock"
	"github.com/maylog/bonealign/adapters/memory"
	"github.com/maylog/bonealign/adapters/metrics"
	"github.com/maylog/bonealign/adapters/scenefile"
	"github.com/maylog/bonealign/adapters/sqlite"
	"github.com/maylog/bonealign/app"
	"github.com/maylog/bonealign/config"
	"github.com/maylog/bonealign/ports"
	"github.com/maylog/bonealign/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the command surface over HTTP",
	Long: `Serve the commands, the session settings and a scene summary over HTTP.
The scene file is watched for external edits and reloaded; /metrics exposes
Prometheus counters when enabled in the config.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Scene.Path == "" {
		return fmt.Errorf("no scene file: pass --scene or set scene.path in %s", cfgFile)
	}
	logger := newLogger(cfg)

	host, err := scenefile.Load(cfg.Scene.Path)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}
	store := sqlite.NewSettingsStore(db)

	// Hot-reload the config file while serving: edits and SIGHUP adjust the
	// log level and the matching default without a restart. Skipped when no
	// config file exists (defaults only, nothing to watch).
	if _, err := os.Stat(cfgFile); err == nil {
		holder, err := watchConfig(cfgFile, store, logger)
		if err != nil {
			return err
		}
		defer holder.Stop()
	}

	registry := prometheus.NewRegistry()
	collector := metrics.New(registry)

	newService := func(h *memory.SceneHost) *app.Service {
		s := app.NewService(h, store, clock.Real{}, logger)
		s.SetMetrics(collector)
		return s
	}

	service := newService(host)
	if cfg.Scene.Autosave {
		attachAutosave(host, cfg.Scene.Path, logger)
	}

	handler := web.New(service, host, logger)

	router := chi.NewRouter()
	router.Mount("/", handler.Router())
	if cfg.Metrics.Enabled {
		router.Method(http.MethodGet, cfg.Metrics.Path,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	stop := make(chan struct{})
	defer close(stop)

	if cfg.Scene.Watch {
		reload := func() {
			newHost, err := scenefile.Load(cfg.Scene.Path)
			if err != nil {
				collector.SceneReloadErrors.Inc()
				logger.Error().Err(err).Msg("scene reload failed, keeping old scene")
				return
			}
			if cfg.Scene.Autosave {
				attachAutosave(newHost, cfg.Scene.Path, logger)
			}
			handler.Swap(newService(newHost), newHost)
			collector.SceneReloads.Inc()
			logger.Info().Str("path", cfg.Scene.Path).Msg("scene reloaded")
		}
		if err := watchScene(cfg.Scene.Path, reload, logger, stop); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("serving")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

// watchConfig builds a config Holder for serve mode: file edits and SIGHUP
// reload the config, and the hot-reloadable parts are applied on each change.
func watchConfig(path string, store ports.SettingsStore, logger zerolog.Logger) (*config.Holder, error) {
	holder, err := config.NewHolder(path, logger)
	if err != nil {
		return nil, err
	}
	holder.OnChange(func(cfg *config.Config) {
		applyConfigChange(cfg, store, logger)
	})
	if err := holder.WatchFile(); err != nil {
		holder.Stop()
		return nil, err
	}
	holder.WatchSignals()
	return holder, nil
}

// applyConfigChange applies the parts of a reloaded config that can change
// while serving: the global log level, and the matching default when the
// settings store has no stored flag yet. A stored flag always wins.
func applyConfigChange(cfg *config.Config, store ports.SettingsStore, logger zerolog.Logger) {
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if !cfg.Matching.CaseSensitive {
		ctx := context.Background()
		if _, err := store.Get(ctx, ports.SettingCaseSensitive); errors.Is(err, ports.ErrNotFound) {
			if err := store.Set(ctx, ports.SettingCaseSensitive, "false"); err != nil {
				logger.Error().Err(err).Msg("seeding matching default failed")
			}
		}
	}
}

// attachAutosave writes the scene file back after every successful commit.
func attachAutosave(host *memory.SceneHost, path string, logger zerolog.Logger) {
	host.OnCommit(func(ctx context.Context) error {
		if err := scenefile.Save(path, host); err != nil {
			logger.Error().Err(err).Msg("scene autosave failed")
			return err
		}
		return nil
	})
}

// watchScene reloads the scene when the file changes on disk. The directory
// is watched because editors often replace files atomically.
func watchScene(path string, reload func(), logger zerolog.Logger, stop <-chan struct{}) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go func() {
		defer watcher.Close()
		filename := filepath.Base(absPath)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filename {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error().Err(err).Msg("scene watcher error")
			case <-stop:
				return
			}
		}
	}()

	logger.Info().Str("path", absPath).Msg("watching scene file for changes")
	return nil
}
