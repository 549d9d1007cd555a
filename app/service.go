// Package app orchestrates commands over the scene host: validate
// preconditions, run the pure domain operation, commit one batched scene
// refresh, and summarize the outcome.
package app

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maylog/bonealign/adapters/metrics"
	"github.com/maylog/bonealign/domain/align"
	"github.com/maylog/bonealign/domain/report"
	"github.com/maylog/bonealign/domain/rig"
	"github.com/maylog/bonealign/ports"
)

// Status is the terminal state of a command invocation.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusCancelled Status = "cancelled"
)

// Outcome is what one command invocation returns to the caller: a status
// plus the severity-tagged messages accumulated along the way.
type Outcome struct {
	Command      CommandID     `json:"command"`
	InvocationID string        `json:"invocation_id"`
	Status       Status        `json:"status"`
	Report       report.Report `json:"report"`
	Duration     time.Duration `json:"duration"`
}

// Service runs bone commands against a scene host.
type Service struct {
	scene    ports.SceneHost
	settings ports.SettingsStore
	clock    ports.Clock
	logger   zerolog.Logger
	metrics  *metrics.Collector
}

// NewService creates a new command service.
func NewService(scene ports.SceneHost, settings ports.SettingsStore, clock ports.Clock, logger zerolog.Logger) *Service {
	return &Service{
		scene:    scene,
		settings: settings,
		clock:    clock,
		logger:   logger,
	}
}

// SetMetrics attaches a metrics collector. Without one, invocations are not
// counted.
func (s *Service) SetMetrics(c *metrics.Collector) {
	s.metrics = c
}

// Scene returns the scene host the service operates on.
func (s *Service) Scene() ports.SceneHost {
	return s.scene
}

// CaseSensitive reads the session's name-matching flag. Unset or unparsable
// values fall back to the default (true).
func (s *Service) CaseSensitive(ctx context.Context) bool {
	value, err := s.settings.Get(ctx, ports.SettingCaseSensitive)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("reading case-sensitivity setting failed, using default")
		}
		return true
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		s.logger.Warn().Str("value", value).Msg("invalid case-sensitivity setting, using default")
		return true
	}
	return parsed
}

// SetCaseSensitive stores the session's name-matching flag.
func (s *Service) SetCaseSensitive(ctx context.Context, caseSensitive bool) error {
	return s.settings.Set(ctx, ports.SettingCaseSensitive, strconv.FormatBool(caseSensitive))
}

// AlignActiveToTarget copies matching bone transforms from the first
// selected rig onto the active rig (edit mode).
func (s *Service) AlignActiveToTarget(ctx context.Context) Outcome {
	return s.run(ctx, CommandAlignActiveToTarget, func(ctx context.Context) (report.Report, error) {
		return s.alignBones(ctx, align.DirectionActiveToTarget)
	})
}

// AlignTargetToActive copies matching bone transforms from the active rig
// onto the first selected rig (edit mode).
func (s *Service) AlignTargetToActive(ctx context.Context) Outcome {
	return s.run(ctx, CommandAlignTargetToActive, func(ctx context.Context) (report.Report, error) {
		return s.alignBones(ctx, align.DirectionTargetToActive)
	})
}

// RenameActiveToTarget renames the active bone to the other selected bone's
// name (edit mode, exactly two selected bones).
func (s *Service) RenameActiveToTarget(ctx context.Context) Outcome {
	return s.run(ctx, CommandRenameActiveToTarget, func(ctx context.Context) (report.Report, error) {
		return s.renameBone(ctx, align.DirectionActiveToTarget)
	})
}

// RenameTargetToActive renames the other selected bone to the active bone's
// name (edit mode, exactly two selected bones).
func (s *Service) RenameTargetToActive(ctx context.Context) Outcome {
	return s.run(ctx, CommandRenameTargetToActive, func(ctx context.Context) (report.Report, error) {
		return s.renameBone(ctx, align.DirectionTargetToActive)
	})
}

// LinkActiveToTarget installs copy-transforms constraints on the active
// rig's bones pointing at matching bones of the first selected rig (pose
// mode).
func (s *Service) LinkActiveToTarget(ctx context.Context) Outcome {
	return s.run(ctx, CommandLinkActiveToTarget, func(ctx context.Context) (report.Report, error) {
		return s.linkBones(ctx, align.DirectionActiveToTarget)
	})
}

// LinkTargetToActive installs copy-transforms constraints on the first
// selected rig's bones pointing at matching bones of the active rig (pose
// mode).
func (s *Service) LinkTargetToActive(ctx context.Context) Outcome {
	return s.run(ctx, CommandLinkTargetToActive, func(ctx context.Context) (report.Report, error) {
		return s.linkBones(ctx, align.DirectionTargetToActive)
	})
}

// ClearLinks removes every constraint from the selected pose bones.
func (s *Service) ClearLinks(ctx context.Context) Outcome {
	return s.run(ctx, CommandClearLinks, func(ctx context.Context) (report.Report, error) {
		if err := s.requireMode(ports.ModePose); err != nil {
			return report.Report{}, err
		}
		refs := s.scene.SelectedBones()
		selected := make([]align.BoneRef, 0, len(refs))
		for _, ref := range refs {
			selected = append(selected, align.BoneRef{Rig: ref.Rig, Name: ref.Name})
		}
		return align.Clear(selected)
	})
}

func (s *Service) alignBones(ctx context.Context, dir align.Direction) (report.Report, error) {
	if err := s.requireMode(ports.ModeEditArmature); err != nil {
		return report.Report{}, err
	}
	active, target, err := s.rigPair()
	if err != nil {
		return report.Report{}, err
	}
	return align.Bones(active, target, dir, s.CaseSensitive(ctx))
}

func (s *Service) linkBones(ctx context.Context, dir align.Direction) (report.Report, error) {
	if err := s.requireMode(ports.ModePose); err != nil {
		return report.Report{}, err
	}
	active, target, err := s.rigPair()
	if err != nil {
		return report.Report{}, err
	}
	return align.Link(active, target, dir, s.CaseSensitive(ctx))
}

func (s *Service) renameBone(ctx context.Context, dir align.Direction) (report.Report, error) {
	if err := s.requireMode(ports.ModeEditArmature); err != nil {
		return report.Report{}, err
	}
	activeRig, activeBone, ok := s.scene.ActiveBone()
	if !ok {
		return report.Report{}, align.Preconditionf("no active bone")
	}
	refs := s.scene.SelectedBones()
	if len(refs) != 2 {
		return report.Report{}, align.Preconditionf("select exactly two bones, got %d", len(refs))
	}

	var other *ports.BoneRef
	activeSelected := false
	for i := range refs {
		if refs[i].Rig == activeRig && refs[i].Name == activeBone {
			activeSelected = true
			continue
		}
		other = &refs[i]
	}
	if !activeSelected || other == nil {
		return report.Report{}, align.Preconditionf("active bone must be one of the two selected bones")
	}
	return align.RenameBone(activeRig, activeBone, other.Rig, other.Name, dir)
}

// rigPair resolves the (active, target) rig pair every two-rig command
// operates on. The target is the first selected rig other than the active
// one, matching the host UI's selection order.
func (s *Service) rigPair() (*rig.Rig, *rig.Rig, error) {
	active, ok := s.scene.ActiveRig()
	if !ok {
		return nil, nil, align.Preconditionf("no active rig")
	}
	others := s.scene.SelectedRigs()
	if len(others) == 0 {
		return nil, nil, align.Preconditionf("no other rig selected")
	}
	return active, others[0], nil
}

func (s *Service) requireMode(want ports.Mode) error {
	if mode := s.scene.Mode(); mode != want {
		return align.Preconditionf("requires %s mode, currently in %s mode", want, mode)
	}
	return nil
}

// run wraps a command body with the shared invocation plumbing: timing, an
// invocation id, the single batched commit on success, logging, metrics and
// the summary severity rules.
func (s *Service) run(ctx context.Context, id CommandID, fn func(ctx context.Context) (report.Report, error)) Outcome {
	start := s.clock.Now()
	outcome := Outcome{
		Command:      id,
		InvocationID: uuid.NewString(),
		Status:       StatusSuccess,
	}
	logger := s.logger.With().
		Str("command", string(id)).
		Str("invocation", outcome.InvocationID).
		Logger()

	rep, err := fn(ctx)
	if err == nil {
		// Mutations are in place; one batched recompute, never per bone.
		if commitErr := s.scene.Commit(ctx); commitErr != nil {
			err = commitErr
		}
	}
	if err != nil {
		rep.Errorf("%s", err.Error())
		outcome.Status = StatusCancelled
		logger.Error().Err(err).Msg("command cancelled")
	} else {
		logger.Info().
			Int("matched", rep.Matched).
			Int("unmatched", len(rep.Unmatched)).
			Int("removed", rep.Removed).
			Msg("command finished")
	}

	outcome.Report = rep
	outcome.Duration = s.clock.Now().Sub(start)
	s.observe(outcome)
	return outcome
}

func (s *Service) observe(o Outcome) {
	if s.metrics == nil {
		return
	}
	cmd := string(o.Command)
	s.metrics.CommandsTotal.WithLabelValues(cmd, string(o.Status)).Inc()
	s.metrics.CommandDuration.WithLabelValues(cmd).Observe(o.Duration.Seconds())
	s.metrics.BonesMatched.WithLabelValues(cmd).Add(float64(o.Report.Matched))
	s.metrics.BonesUnmatched.WithLabelValues(cmd).Add(float64(len(o.Report.Unmatched)))
	s.metrics.ConstraintsRemoved.Add(float64(o.Report.Removed))
}
