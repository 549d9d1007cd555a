// Package rig provides skeletal rig value types and pure hierarchy functions.
// A rig is a named tree of bones; the scene host owns rig instances and this
// package never assumes a live scene.
package rig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tiendc/go-deepcopy"
)

// ConstraintKind identifies the behavior of a constraint.
type ConstraintKind string

const (
	// KindCopyTransforms makes the owning bone follow the target bone's
	// full transform at evaluation time.
	KindCopyTransforms ConstraintKind = "copy_transforms"
)

// Space is the coordinate space a constraint end is evaluated in.
type Space string

const (
	SpaceWorld Space = "world" // default for both ends
	SpaceLocal Space = "local"
)

// Constraint is a directional dependency link owned by one bone and
// pointing at a bone in another (or the same) rig.
type Constraint struct {
	Kind        ConstraintKind
	TargetRig   string
	TargetBone  string
	OwnerSpace  Space
	TargetSpace Space
	Enabled     bool
}

// Equivalent reports whether two constraints reference the same target with
// the same kind. Space flags and enabled state are intentionally ignored:
// re-linking replaces an equivalent constraint instead of stacking a new one.
func (c Constraint) Equivalent(o Constraint) bool {
	return c.Kind == o.Kind && c.TargetRig == o.TargetRig && c.TargetBone == o.TargetBone
}

// Bone is one node of a rig hierarchy.
//
// Head, Tail, Matrix and Roll are the structural (edit-mode) fields;
// Constraints is the posed-state dependency list. Matrix is an array type,
// so assignment copies by value and never aliases another bone's matrix.
type Bone struct {
	Name        string
	Parent      string // parent bone name; empty for a root bone
	Head        mgl64.Vec3
	Tail        mgl64.Vec3
	Matrix      mgl64.Mat4
	Roll        float64
	Constraints []Constraint
}

// Rig is an ordered collection of bones. Bone names are unique within a rig;
// Rename is the only mutation in this package that re-checks the invariant.
type Rig struct {
	Name  string
	Bones []Bone
}

// Len returns the number of bones.
func (r *Rig) Len() int {
	return len(r.Bones)
}

// Bone returns a pointer to the bone with the given exact name.
func (r *Rig) Bone(name string) (*Bone, bool) {
	for i := range r.Bones {
		if r.Bones[i].Name == name {
			return &r.Bones[i], true
		}
	}
	return nil, false
}

// NameIndex builds a lookup map over the rig's bones. Keys are produced by
// Key, so a case-insensitive index maps lower-cased names.
func (r *Rig) NameIndex(caseSensitive bool) map[string]*Bone {
	index := make(map[string]*Bone, len(r.Bones))
	for i := range r.Bones {
		index[Key(r.Bones[i].Name, caseSensitive)] = &r.Bones[i]
	}
	return index
}

// NameConflictError reports a rename that would duplicate a bone name.
type NameConflictError struct {
	Rig  string
	Name string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("bone %q already exists in rig %q", e.Name, e.Rig)
}

// Rename renames the bone called from to to, enforcing name uniqueness.
// Renaming a bone to its current name is a no-op. The rig is untouched when
// an error is returned.
func (r *Rig) Rename(from, to string) error {
	bone, ok := r.Bone(from)
	if !ok {
		return fmt.Errorf("bone %q not found in rig %q", from, r.Name)
	}
	if from == to {
		return nil
	}
	if _, exists := r.Bone(to); exists {
		return &NameConflictError{Rig: r.Name, Name: to}
	}
	bone.Name = to
	for i := range r.Bones {
		if r.Bones[i].Parent == from {
			r.Bones[i].Parent = to
		}
	}
	return nil
}

// Clone returns a deep copy of the rig, constraint lists included.
func (r *Rig) Clone() (*Rig, error) {
	out := &Rig{}
	if err := deepcopy.Copy(out, r); err != nil {
		return nil, fmt.Errorf("clone rig %q: %w", r.Name, err)
	}
	return out, nil
}
