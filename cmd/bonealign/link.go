package main

import (
	"github.com/spf13/cobra"

	"github.com/maylog/bonealign/app"
)

var linkCmd = &cobra.Command{
	Use:   "link {active-to-target|target-to-active}",
	Short: "Install copy-transforms constraints between same-named pose bones",
	Long: `Install an enabled copy-transforms constraint (world space on both ends)
on each bone that has a same-named bone in the other rig:

  active-to-target   the active rig's bones follow the target rig
  target-to-active   the target rig's bones follow the active rig

Re-running replaces an equivalent existing constraint instead of stacking a
second one. Requires pose mode with an active rig and at least one other
selected rig.`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

var clearLinksCmd = &cobra.Command{
	Use:   "clear-links",
	Short: "Remove all constraints from the selected pose bones",
	Args:  cobra.NoArgs,
	RunE:  runClearLinks,
}

func init() {
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(clearLinksCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	id, err := directionCommand(args[0], app.CommandLinkActiveToTarget, app.CommandLinkTargetToActive)
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

func runClearLinks(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	return s.invoke(cmd.Context(), app.CommandClearLinks)
}
