package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maylog/bonealign/app"
)

var alignCmd = &cobra.Command{
	Use:   "align {active-to-target|target-to-active}",
	Short: "Copy transforms between same-named edit bones of two rigs",
	Long: `Copy head, tail, matrix and roll between same-named bones of the active
rig and the first selected rig. The direction picks which rig is overwritten:

  active-to-target   the active rig's bones take the target's transforms
  target-to-active   the target rig's bones take the active's transforms

Requires the scene to be in edit_armature mode with an active rig and at
least one other selected rig.`,
	Args: cobra.ExactArgs(1),
	RunE: runAlign,
}

func init() {
	rootCmd.AddCommand(alignCmd)
}

func runAlign(cmd *cobra.Command, args []string) error {
	id, err := directionCommand(args[0], app.CommandAlignActiveToTarget, app.CommandAlignTargetToActive)
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

// directionCommand maps the CLI direction argument onto a command id pair.
func directionCommand(arg string, activeToTarget, targetToActive app.CommandID) (app.CommandID, error) {
	switch arg {
	case "active-to-target":
		return activeToTarget, nil
	case "target-to-active":
		return targetToActive, nil
	default:
		return "", fmt.Errorf("unknown direction %q: want active-to-target or target-to-active", arg)
	}
}
