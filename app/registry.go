package app

import (
	"context"
	"fmt"

	"github.com/maylog/bonealign/ports"
)

// CommandID is the machine-readable identifier the host UI invokes a
// command by.
type CommandID string

const (
	CommandAlignActiveToTarget  CommandID = "bonealign.align_active_to_target"
	CommandAlignTargetToActive  CommandID = "bonealign.align_target_to_active"
	CommandRenameActiveToTarget CommandID = "bonealign.rename_active_to_target"
	CommandRenameTargetToActive CommandID = "bonealign.rename_target_to_active"
	CommandLinkActiveToTarget   CommandID = "bonealign.link_active_to_target"
	CommandLinkTargetToActive   CommandID = "bonealign.link_target_to_active"
	CommandClearLinks           CommandID = "bonealign.clear_links"
)

// Command describes one host-exposed command: identifier, human label, and
// the availability predicate the host queries before allowing invocation.
type Command struct {
	ID        CommandID
	Label     string
	Available func(scene ports.SceneHost) bool
	run       func(ctx context.Context, s *Service) Outcome
}

// twoRigEdit is the availability shape of the align commands: edit mode
// with an active rig and at least one other selected rig.
func twoRigEdit(scene ports.SceneHost) bool {
	_, ok := scene.ActiveRig()
	return ok && scene.Mode() == ports.ModeEditArmature && len(scene.SelectedRigs()) > 0
}

// twoRigPose is the availability shape of the link commands.
func twoRigPose(scene ports.SceneHost) bool {
	_, ok := scene.ActiveRig()
	return ok && scene.Mode() == ports.ModePose && len(scene.SelectedRigs()) > 0
}

// twoBoneEdit is the availability shape of the rename commands: edit mode
// with exactly two selected bones, one of them active.
func twoBoneEdit(scene ports.SceneHost) bool {
	if scene.Mode() != ports.ModeEditArmature {
		return false
	}
	if _, _, ok := scene.ActiveBone(); !ok {
		return false
	}
	return len(scene.SelectedBones()) == 2
}

// poseMode gates clear-links. The empty-selection case is a runtime
// precondition error rather than an availability miss, so an invocation with
// nothing selected reports instead of silently being ungated.
func poseMode(scene ports.SceneHost) bool {
	return scene.Mode() == ports.ModePose
}

// Commands returns the seven host-exposed commands in display order.
func Commands() []Command {
	return []Command{
		{
			ID:        CommandAlignActiveToTarget,
			Label:     "Align Active to Target",
			Available: twoRigEdit,
			run:       func(ctx context.Context, s *Service) Outcome { return s.AlignActiveToTarget(ctx) },
		},
		{
			ID:        CommandAlignTargetToActive,
			Label:     "Align Target to Active",
			Available: twoRigEdit,
			run:       func(ctx context.Context, s *Service) Outcome { return s.AlignTargetToActive(ctx) },
		},
		{
			ID:        CommandRenameActiveToTarget,
			Label:     "Rename Active to Target",
			Available: twoBoneEdit,
			run:       func(ctx context.Context, s *Service) Outcome { return s.RenameActiveToTarget(ctx) },
		},
		{
			ID:        CommandRenameTargetToActive,
			Label:     "Rename Target to Active",
			Available: twoBoneEdit,
			run:       func(ctx context.Context, s *Service) Outcome { return s.RenameTargetToActive(ctx) },
		},
		{
			ID:        CommandLinkActiveToTarget,
			Label:     "Link Active to Target",
			Available: twoRigPose,
			run:       func(ctx context.Context, s *Service) Outcome { return s.LinkActiveToTarget(ctx) },
		},
		{
			ID:        CommandLinkTargetToActive,
			Label:     "Link Target to Active",
			Available: twoRigPose,
			run:       func(ctx context.Context, s *Service) Outcome { return s.LinkTargetToActive(ctx) },
		},
		{
			ID:        CommandClearLinks,
			Label:     "Clear Links",
			Available: poseMode,
			run:       func(ctx context.Context, s *Service) Outcome { return s.ClearLinks(ctx) },
		},
	}
}

// Find returns the command with the given id.
func Find(id CommandID) (Command, bool) {
	for _, c := range Commands() {
		if c.ID == id {
			return c, true
		}
	}
	return Command{}, false
}

// Invoke runs a command by id. Unknown ids are an error; an unavailable
// command returns a cancelled outcome without touching the scene.
func (s *Service) Invoke(ctx context.Context, id CommandID) (Outcome, error) {
	cmd, ok := Find(id)
	if !ok {
		return Outcome{}, fmt.Errorf("unknown command %q", id)
	}
	if !cmd.Available(s.scene) {
		outcome := Outcome{Command: id, Status: StatusCancelled}
		outcome.Report.Errorf("command %q is not available in the current mode and selection", id)
		return outcome, nil
	}
	return cmd.run(ctx, s), nil
}
