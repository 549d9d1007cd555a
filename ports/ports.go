// Package ports defines interfaces (contracts) between layers.
// The scene host is the editing application's scene graph seen through a
// narrow interface; implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/maylog/bonealign/domain/rig"
)

// ErrNotFound is returned by stores when a key or entity does not exist.
var ErrNotFound = errors.New("not found")

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// -----------------------------------------------------------------------------
// Scene Host Port
// -----------------------------------------------------------------------------

// Mode is the host's current interaction mode. Edit-mode operations work on
// structural bone fields; pose-mode operations work on constraints.
type Mode string

const (
	ModeEditArmature Mode = "edit_armature"
	ModePose         Mode = "pose"
	ModeObject       Mode = "object"
)

// SceneHost exposes the mutable scene graph owned by the editing session.
//
// Rigs returned by ActiveRig and SelectedRigs are live references: callers
// mutate bone fields in place and then call Commit exactly once so the host
// recomputes dependent state in one batch. The host guarantees exclusive
// access for the duration of one command invocation.
type SceneHost interface {
	// Mode returns the current interaction mode.
	Mode() Mode

	// ActiveRig returns the active object's rig, if the active object is a
	// rig.
	ActiveRig() (*rig.Rig, bool)

	// SelectedRigs returns the selected rigs excluding the active one, in
	// selection order.
	SelectedRigs() []*rig.Rig

	// ActiveBone returns the active bone and the rig that owns it.
	ActiveBone() (owner *rig.Rig, name string, ok bool)

	// SelectedBones returns a reference for every selected bone across all
	// selected rigs, in selection order, active bone included.
	SelectedBones() []BoneRef

	// Commit asks the host to recompute the scene after a batch of
	// mutations. Called once per successful command, never per bone.
	Commit(ctx context.Context) error
}

// BoneRef identifies one bone within a scene.
type BoneRef struct {
	Rig  *rig.Rig
	Name string
}

// -----------------------------------------------------------------------------
// Settings Port
// -----------------------------------------------------------------------------

// SettingCaseSensitive is the session-scoped flag controlling bone name
// matching. Defaults to true when unset.
const SettingCaseSensitive = "matching.case_sensitive"

// SettingsStore persists session-scoped settings.
type SettingsStore interface {
	// Get retrieves a setting value. Returns ErrNotFound when unset.
	Get(ctx context.Context, key string) (string, error)

	// Set stores or updates a setting.
	Set(ctx context.Context, key, value string) error

	// Delete removes a setting. Deleting an unset key is not an error.
	Delete(ctx context.Context, key string) error

	// GetAll returns every stored setting.
	GetAll(ctx context.Context) (map[string]string, error)
}
