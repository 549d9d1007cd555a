package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maylog/bonealign/app"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and whether the current scene allows them",
	Args:  cobra.NoArgs,
	RunE:  runCommands,
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}

func runCommands(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tAVAILABLE")
	fmt.Fprintln(w, "--\t-----\t---------")
	for _, c := range app.Commands() {
		fmt.Fprintf(w, "%s\t%s\t%t\n", c.ID, c.Label, c.Available(s.host))
	}
	return w.Flush()
}
