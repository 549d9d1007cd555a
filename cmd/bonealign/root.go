package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maylog/bonealign/config"
)

var (
	// Global flags
	cfgFile       string
	sceneFile     string
	noSave        bool
	jsonOut       bool
	caseSensitive string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bonealign",
	Short: "Copy bone transforms and constraints between rigs with matching bone names",
	Long: `bonealign aligns two skeletal rigs by bone name: it copies head, tail,
matrix and roll between same-named edit bones, installs copy-transforms
constraints between same-named pose bones, and renames bones pairwise.

Commands operate on a scene file (YAML) holding the rigs plus the active
and selected designations; successful commands write the scene back.

Quick start:
  bonealign commands --scene scene.yaml       # what can run right now
  bonealign align active-to-target --scene scene.yaml

Pose mode:
  bonealign link target-to-active --scene scene.yaml
  bonealign clear-links --scene scene.yaml`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "bonealign.yaml", "config file path")
	rootCmd.PersistentFlags().StringVarP(&sceneFile, "scene", "s", "", "scene file path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noSave, "no-save", false, "do not write the scene file back after a successful command")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print command outcomes as JSON")
	rootCmd.PersistentFlags().StringVar(&caseSensitive, "case-sensitive", "", "override the stored case-sensitive matching flag for this run (true|false)")
}

// loadConfig resolves the effective configuration for this invocation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, err
	}
	if sceneFile != "" {
		cfg.Scene.Path = sceneFile
	}
	return cfg, nil
}

// newLogger builds the CLI logger writing to stderr so stdout stays clean
// for command output. The level is applied globally so a serve-mode config
// reload changes the level of every live logger.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
