package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maylog/bonealign/adapters/sqlite"
	"github.com/maylog/bonealign/ports"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage session settings",
	Long: `Manage settings stored in the settings database.

The only setting today is case-sensitive, the bone name matching flag read
by every align, rename and link command. It defaults to true.

Examples:
  bonealign settings list
  bonealign settings get case-sensitive
  bonealign settings set case-sensitive false`,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsList,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get case-sensitive",
	Short: "Get the case-sensitive matching flag",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set case-sensitive <true|false>",
	Short: "Set the case-sensitive matching flag",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

// openSettingsDB opens the settings database without loading a scene, so
// settings commands work before any scene file exists.
func openSettingsDB() (*sqlite.DB, error) {
	cfg, err := loadConfig()
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
	return db, nil
}

func runSettingsList(cmd *cobra.Command, args []string) error {
	db, err := openSettingsDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store := sqlite.NewSettingsStore(db)
	settings, err := store.GetAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list settings: %w", err)
	}

	if len(settings) == 0 {
		fmt.Println("No settings stored; defaults apply.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	fmt.Fprintln(w, "---\t-----")
	for key, value := range settings {
		fmt.Fprintf(w, "%s\t%s\n", key, value)
	}
	return w.Flush()
}

// settingKey maps the CLI setting name onto its store key.
func settingKey(name string) (string, error) {
	if name == "case-sensitive" {
		return ports.SettingCaseSensitive, nil
	}
	return "", fmt.Errorf("unknown setting %q", name)
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	key, err := settingKey(args[0])
	if err != nil {
		return err
	}

	db, err := openSettingsDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store := sqlite.NewSettingsStore(db)
	value, err := store.Get(context.Background(), key)
	if errors.Is(err, ports.ErrNotFound) {
		fmt.Println("true (default)")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, err := settingKey(args[0])
	if err != nil {
		return err
	}
	value, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("value for %s must be true or false", args[0])
	}

	db, err := openSettingsDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store := sqlite.NewSettingsStore(db)
	if err := store.Set(context.Background(), key, strconv.FormatBool(value)); err != nil {
		return err
	}
	fmt.Printf("%s = %t\n", args[0], value)
	return nil
}
