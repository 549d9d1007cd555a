// Package memory provides in-memory implementations for testing and for
// driving commands against scenes loaded from files.
package memory

import (
	"context"
	"sync"

	"github.com/maylog/bonealign/domain/rig"
	"github.com/maylog/bonealign/ports"
)

// SceneHost is an in-memory implementation of ports.SceneHost. It owns its
// rigs the way the editing application owns a scene: commands mutate the
// returned rig pointers in place and Commit bumps a generation counter.
type SceneHost struct {
	mu            sync.RWMutex
	mode          ports.Mode
	rigs          map[string]*rig.Rig
	order         []string // rig insertion order
	active        string
	selected      []string // selected rig names, selection order
	activeBone    string
	activeBoneRig string
	selectedBones []sceneBoneRef
	commits       int
	onCommit      func(ctx context.Context) error
}

type sceneBoneRef struct {
	rig  string
	bone string
}

var _ ports.SceneHost = (*SceneHost)(nil)

// NewSceneHost creates an empty scene in object mode.
func NewSceneHost() *SceneHost {
	return &SceneHost{
		mode: ports.ModeObject,
		rigs: make(map[string]*rig.Rig),
	}
}

// AddRig adds a rig to the scene.
func (s *SceneHost) AddRig(r *rig.Rig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rigs[r.Name]; !exists {
		s.order = append(s.order, r.Name)
	}
	s.rigs[r.Name] = r
}

// Rig returns a rig by name.
func (s *SceneHost) Rig(name string) (*rig.Rig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rigs[name]
	return r, ok
}

// Rigs returns every rig in insertion order.
func (s *SceneHost) Rigs() []*rig.Rig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*rig.Rig, 0, len(s.order))
	for _, name := range s.order {
		result = append(result, s.rigs[name])
	}
	return result
}

// SetMode switches the interaction mode.
func (s *SceneHost) SetMode(m ports.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

// SetActive designates the active rig.
func (s *SceneHost) SetActive(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = name
}

// SelectRig appends a rig to the selection.
func (s *SceneHost) SelectRig(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = append(s.selected, name)
}

// SetActiveBone designates the active bone within a rig.
func (s *SceneHost) SetActiveBone(rigName, bone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeBoneRig = rigName
	s.activeBone = bone
}

// SelectBone appends a bone to the bone selection.
func (s *SceneHost) SelectBone(rigName, bone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedBones = append(s.selectedBones, sceneBoneRef{rig: rigName, bone: bone})
}

// ClearSelection empties the rig and bone selections.
func (s *SceneHost) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	s.selectedBones = nil
	s.activeBone = ""
	s.activeBoneRig = ""
}

// OnCommit registers a callback invoked on every Commit, after the counter
// is bumped. Used for scene-file autosave.
func (s *SceneHost) OnCommit(fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCommit = fn
}

// CommitCount returns how many times Commit has been called.
func (s *SceneHost) CommitCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

// Mode implements ports.SceneHost.
func (s *SceneHost) Mode() ports.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// ActiveRig implements ports.SceneHost.
func (s *SceneHost) ActiveRig() (*rig.Rig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rigs[s.active]
	return r, ok
}

// SelectedRigs implements ports.SceneHost. The active rig is excluded even
// when it is part of the selection.
func (s *SceneHost) SelectedRigs() []*rig.Rig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*rig.Rig
	for _, name := range s.selected {
		if name == s.active {
			continue
		}
		if r, ok := s.rigs[name]; ok {
			result = append(result, r)
		}
	}
	return result
}

// ActiveBone implements ports.SceneHost.
func (s *SceneHost) ActiveBone() (*rig.Rig, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rigs[s.activeBoneRig]
	if !ok || s.activeBone == "" {
		return nil, "", false
	}
	return r, s.activeBone, true
}

// SelectedBones implements ports.SceneHost.
func (s *SceneHost) SelectedBones() []ports.BoneRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []ports.BoneRef
	for _, ref := range s.selectedBones {
		if r, ok := s.rigs[ref.rig]; ok {
			result = append(result, ports.BoneRef{Rig: r, Name: ref.bone})
		}
	}
	return result
}

// Commit implements ports.SceneHost.
func (s *SceneHost) Commit(ctx context.Context) error {
	s.mu.Lock()
	s.commits++
	fn := s.onCommit
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return nil
}
