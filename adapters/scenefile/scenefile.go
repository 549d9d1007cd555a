// Package scenefile loads and saves scene documents as YAML. A scene file is
// the serialized state of an in-memory scene host: rigs, mode, and the
// active/selected designations that command availability depends on.
package scenefile

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/maylog/bonealign/adapters/memory"
	"github.com/maylog/bonealign/domain/rig"
	"github.com/maylog/bonealign/ports"
)

// Document is the YAML shape of a scene file.
type Document struct {
	Mode          string        `yaml:"mode"`
	Active        string        `yaml:"active,omitempty"`
	SelectedRigs  []string      `yaml:"selected_rigs,omitempty"`
	ActiveBone    *BoneRef      `yaml:"active_bone,omitempty"`
	SelectedBones []BoneRef     `yaml:"selected_bones,omitempty"`
	Rigs          []RigDocument `yaml:"rigs"`
}

// BoneRef names one bone within one rig.
type BoneRef struct {
	Rig  string `yaml:"rig"`
	Bone string `yaml:"bone"`
}

// RigDocument is the YAML shape of one rig.
type RigDocument struct {
	Name  string         `yaml:"name"`
	Bones []BoneDocument `yaml:"bones"`
}

// BoneDocument is the YAML shape of one bone. Matrix is optional: sixteen
// numbers in row-major order, derived from head/tail/roll when absent.
type BoneDocument struct {
	Name        string               `yaml:"name"`
	Parent      string               `yaml:"parent,omitempty"`
	Head        [3]float64           `yaml:"head"`
	Tail        [3]float64           `yaml:"tail"`
	Roll        float64              `yaml:"roll,omitempty"`
	Matrix      []float64            `yaml:"matrix,omitempty,flow"`
	Constraints []ConstraintDocument `yaml:"constraints,omitempty"`
}

// ConstraintDocument is the YAML shape of one constraint.
type ConstraintDocument struct {
	Kind        string `yaml:"kind"`
	TargetRig   string `yaml:"target_rig"`
	TargetBone  string `yaml:"target_bone"`
	OwnerSpace  string `yaml:"owner_space,omitempty"`
	TargetSpace string `yaml:"target_space,omitempty"`
	Enabled     bool   `yaml:"enabled"`
}

// Load reads a scene file and builds a scene host from it.
func Load(path string) (*memory.SceneHost, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scene file: %w", err)
	}
	return FromDocument(&doc)
}

// Save writes the scene host's current state back to a scene file.
func Save(path string, host *memory.SceneHost) error {
	doc := ToDocument(host)
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scene file: %w", err)
	}
	return nil
}

// FromDocument builds a scene host from a parsed document. Bones without a
// matrix get one derived from head/tail/roll.
func FromDocument(doc *Document) (*memory.SceneHost, error) {
	host := memory.NewSceneHost()

	switch m := ports.Mode(doc.Mode); m {
	case ports.ModeEditArmature, ports.ModePose, ports.ModeObject:
		host.SetMode(m)
	case "":
		host.SetMode(ports.ModeObject)
	default:
		return nil, fmt.Errorf("unknown mode %q", doc.Mode)
	}

	for _, rd := range doc.Rigs {
		r := &rig.Rig{Name: rd.Name}
		seen := make(map[string]bool, len(rd.Bones))
		for _, bd := range rd.Bones {
			if seen[bd.Name] {
				return nil, fmt.Errorf("rig %q: duplicate bone name %q", rd.Name, bd.Name)
			}
			seen[bd.Name] = true

			b, err := boneFromDocument(bd)
			if err != nil {
				return nil, fmt.Errorf("rig %q: %w", rd.Name, err)
			}
			r.Bones = append(r.Bones, b)
		}
		host.AddRig(r)
	}

	if doc.Active != "" {
		if _, ok := host.Rig(doc.Active); !ok {
			return nil, fmt.Errorf("active rig %q not defined", doc.Active)
		}
		host.SetActive(doc.Active)
	}
	for _, name := range doc.SelectedRigs {
		if _, ok := host.Rig(name); !ok {
			return nil, fmt.Errorf("selected rig %q not defined", name)
		}
		host.SelectRig(name)
	}
	if doc.ActiveBone != nil {
		host.SetActiveBone(doc.ActiveBone.Rig, doc.ActiveBone.Bone)
	}
	for _, ref := range doc.SelectedBones {
		host.SelectBone(ref.Rig, ref.Bone)
	}
	return host, nil
}

// ToDocument serializes the scene host back into a document.
func ToDocument(host *memory.SceneHost) *Document {
	doc := &Document{Mode: string(host.Mode())}

	if active, ok := host.ActiveRig(); ok {
		doc.Active = active.Name
	}
	for _, r := range host.SelectedRigs() {
		doc.SelectedRigs = append(doc.SelectedRigs, r.Name)
	}
	if owner, name, ok := host.ActiveBone(); ok {
		doc.ActiveBone = &BoneRef{Rig: owner.Name, Bone: name}
	}
	for _, ref := range host.SelectedBones() {
		doc.SelectedBones = append(doc.SelectedBones, BoneRef{Rig: ref.Rig.Name, Bone: ref.Name})
	}

	for _, r := range host.Rigs() {
		rd := RigDocument{Name: r.Name}
		for i := range r.Bones {
			rd.Bones = append(rd.Bones, boneToDocument(&r.Bones[i]))
		}
		doc.Rigs = append(doc.Rigs, rd)
	}
	return doc
}

func boneFromDocument(bd BoneDocument) (rig.Bone, error) {
	b := rig.Bone{
		Name:   bd.Name,
		Parent: bd.Parent,
		Head:   mgl64.Vec3{bd.Head[0], bd.Head[1], bd.Head[2]},
		Tail:   mgl64.Vec3{bd.Tail[0], bd.Tail[1], bd.Tail[2]},
		Roll:   bd.Roll,
	}

	switch len(bd.Matrix) {
	case 0:
		if err := b.EnsureMatrix(); err != nil {
			return rig.Bone{}, err
		}
	case 16:
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				b.Matrix[col*4+row] = bd.Matrix[row*4+col]
			}
		}
	default:
		return rig.Bone{}, fmt.Errorf("bone %q: matrix must have 16 values, got %d", bd.Name, len(bd.Matrix))
	}

	for _, cd := range bd.Constraints {
		c, err := constraintFromDocument(cd)
		if err != nil {
			return rig.Bone{}, fmt.Errorf("bone %q: %w", bd.Name, err)
		}
		b.Constraints = append(b.Constraints, c)
	}
	return b, nil
}

func boneToDocument(b *rig.Bone) BoneDocument {
	bd := BoneDocument{
		Name:   b.Name,
		Parent: b.Parent,
		Head:   [3]float64{b.Head.X(), b.Head.Y(), b.Head.Z()},
		Tail:   [3]float64{b.Tail.X(), b.Tail.Y(), b.Tail.Z()},
		Roll:   b.Roll,
	}

	bd.Matrix = make([]float64, 16)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			bd.Matrix[row*4+col] = b.Matrix[col*4+row]
		}
	}

	for _, c := range b.Constraints {
		bd.Constraints = append(bd.Constraints, ConstraintDocument{
			Kind:        string(c.Kind),
			TargetRig:   c.TargetRig,
			TargetBone:  c.TargetBone,
			OwnerSpace:  string(c.OwnerSpace),
			TargetSpace: string(c.TargetSpace),
			Enabled:     c.Enabled,
		})
	}
	return bd
}

func constraintFromDocument(cd ConstraintDocument) (rig.Constraint, error) {
	c := rig.Constraint{
		Kind:        rig.ConstraintKind(cd.Kind),
		TargetRig:   cd.TargetRig,
		TargetBone:  cd.TargetBone,
		OwnerSpace:  rig.Space(cd.OwnerSpace),
		TargetSpace: rig.Space(cd.TargetSpace),
		Enabled:     cd.Enabled,
	}
	if c.Kind == "" {
		return rig.Constraint{}, fmt.Errorf("constraint missing kind")
	}
	if c.OwnerSpace == "" {
		c.OwnerSpace = rig.SpaceWorld
	}
	if c.TargetSpace == "" {
		c.TargetSpace = rig.SpaceWorld
	}
	return c, nil
}
