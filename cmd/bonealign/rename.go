package main

import (
	"github.com/spf13/cobra"

	"github.com/maylog/bonealign/app"
)

var renameCmd = &cobra.Command{
	Use:   "rename {active-to-target|target-to-active}",
	Short: "Rename one of two selected bones to the other's name",
	Long: `Rename one of the two selected edit bones after the other:

  active-to-target   the active bone takes the other bone's name
  target-to-active   the other bone takes the active bone's name

Requires edit_armature mode with exactly two selected bones, one of them
active. Renaming a bone to a name already present in its rig is an error
and nothing is changed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	id, err := directionCommand(args[0], app.CommandRenameActiveToTarget, app.CommandRenameTargetToActive)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	return s.invoke(cmd.Context(), id)
}
