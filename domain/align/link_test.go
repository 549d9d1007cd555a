package align_test

import (
	"errors"
	"testing"

	"github.com/maylog/bonealign/domain/align"
	"github.com/maylog/bonealign/domain/report"
	"github.com/maylog/bonealign/domain/rig"
)

func namedRig(name string, bones ...string) *rig.Rig {
	r := &rig.Rig{Name: name}
	for _, n := range bones {
		r.Bones = append(r.Bones, rig.Bone{Name: n})
	}
	return r
}

func TestLink_InstallsConstraints(t *testing.T) {
	active := namedRig("active", "hip", "spine", "tail")
	target := namedRig("target", "hip", "spine")

	rep, err := align.Link(active, target, align.DirectionActiveToTarget, true)
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	if rep.Matched != 2 {
		t.Errorf("Matched = %d, want 2", rep.Matched)
	}
	if len(rep.Unmatched) != 1 || rep.Unmatched[0] != "tail" {
		t.Errorf("Unmatched = %v, want [tail]", rep.Unmatched)
	}

	hip, _ := active.Bone("hip")
	if len(hip.Constraints) != 1 {
		t.Fatalf("hip has %d constraints, want 1", len(hip.Constraints))
	}
	c := hip.Constraints[0]
	if c.Kind != rig.KindCopyTransforms {
		t.Errorf("Kind = %q, want %q", c.Kind, rig.KindCopyTransforms)
	}
	if c.TargetRig != "target" || c.TargetBone != "hip" {
		t.Errorf("target = %s/%s, want target/hip", c.TargetRig, c.TargetBone)
	}
	if c.OwnerSpace != rig.SpaceWorld || c.TargetSpace != rig.SpaceWorld {
		t.Errorf("spaces = %s/%s, want world/world", c.OwnerSpace, c.TargetSpace)
	}
	if !c.Enabled {
		t.Error("new constraint must be enabled")
	}

	// The donor rig gains nothing.
	for i := range target.Bones {
		if len(target.Bones[i].Constraints) != 0 {
			t.Errorf("donor bone %q gained constraints", target.Bones[i].Name)
		}
	}
}

func TestLink_Idempotent(t *testing.T) {
	active := namedRig("active", "hip")
	target := namedRig("target", "hip")

	for i := 0; i < 3; i++ {
		if _, err := align.Link(active, target, align.DirectionActiveToTarget, true); err != nil {
			t.Fatalf("Link run %d failed: %v", i+1, err)
		}
	}

	hip, _ := active.Bone("hip")
	if len(hip.Constraints) != 1 {
		t.Errorf("after 3 runs hip has %d constraints, want 1", len(hip.Constraints))
	}
}

func TestLink_KeepsForeignConstraints(t *testing.T) {
	active := namedRig("active", "hip")
	target := namedRig("target", "hip")
	hip, _ := active.Bone("hip")
	foreign := rig.Constraint{
		Kind:       rig.KindCopyTransforms,
		TargetRig:  "third",
		TargetBone: "hip",
		Enabled:    true,
	}
	hip.Constraints = []rig.Constraint{foreign}

	if _, err := align.Link(active, target, align.DirectionActiveToTarget, true); err != nil {
		t.Fatalf("Link failed: %v", err)
	}

	if len(hip.Constraints) != 2 {
		t.Fatalf("hip has %d constraints, want 2", len(hip.Constraints))
	}
	if hip.Constraints[0] != foreign {
		t.Error("constraint targeting another rig was replaced")
	}
}

func TestLink_Direction(t *testing.T) {
	active := namedRig("active", "hip")
	target := namedRig("target", "hip")

	if _, err := align.Link(active, target, align.DirectionTargetToActive, true); err != nil {
		t.Fatalf("Link failed: %v", err)
	}

	activeHip, _ := active.Bone("hip")
	targetHip, _ := target.Bone("hip")
	if len(activeHip.Constraints) != 0 {
		t.Error("active rig was mutated for target-to-active direction")
	}
	if len(targetHip.Constraints) != 1 {
		t.Fatal("target rig did not receive the constraint")
	}
	if got := targetHip.Constraints[0].TargetRig; got != "active" {
		t.Errorf("constraint targets rig %q, want %q", got, "active")
	}
}

func TestLink_CaseInsensitiveTargetName(t *testing.T) {
	active := namedRig("active", "hip")
	target := namedRig("target", "HIP")

	rep, err := align.Link(active, target, align.DirectionActiveToTarget, false)
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	if rep.Matched != 1 {
		t.Fatalf("Matched = %d, want 1", rep.Matched)
	}
	hip, _ := active.Bone("hip")
	// The constraint records the donor bone's real name, not the match key.
	if got := hip.Constraints[0].TargetBone; got != "HIP" {
		t.Errorf("TargetBone = %q, want %q", got, "HIP")
	}
}

func TestLink_NoMatchesWarns(t *testing.T) {
	rep, err := align.Link(namedRig("active", "hip"), namedRig("target", "pelvis"),
		align.DirectionActiveToTarget, true)
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	if !rep.HasSeverity(report.SeverityWarning) {
		t.Error("zero matches must produce a warning summary")
	}
}

func TestLink_Preconditions(t *testing.T) {
	_, err := align.Link(&rig.Rig{Name: "empty"}, namedRig("target", "hip"),
		align.DirectionActiveToTarget, true)
	var pe *align.PreconditionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PreconditionError, got %T: %v", err, err)
	}
}
