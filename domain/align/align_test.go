package align_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/maylog/bonealign/domain/align"
	"github.com/maylog/bonealign/domain/report"
	"github.com/maylog/bonealign/domain/rig"
)

// posedRig builds a rig whose bones carry distinct transforms derived from
// the given offset, so copies are observable.
func posedRig(name string, offset float64, bones ...[2]string) *rig.Rig {
	r := &rig.Rig{Name: name}
	for i, nb := range bones {
		head := mgl64.Vec3{offset, float64(i), 0}
		tail := mgl64.Vec3{offset, float64(i) + 1, 0}
		roll := offset / 10
		m, _ := rig.EditMatrix(head, tail, roll)
		r.Bones = append(r.Bones, rig.Bone{
			Name:   nb[0],
			Parent: nb[1],
			Head:   head,
			Tail:   tail,
			Roll:   roll,
			Matrix: m,
		})
	}
	return r
}

func TestBones_CopiesTransforms(t *testing.T) {
	active := posedRig("active", 1, [2]string{"hip", ""}, [2]string{"spine", "hip"})
	target := posedRig("target", 5, [2]string{"hip", ""}, [2]string{"spine", "hip"})
	activeBefore, err := active.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	donorBefore, err := target.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}

	rep, err := align.Bones(active, target, align.DirectionActiveToTarget, true)
	if err != nil {
		t.Fatalf("Bones failed: %v", err)
	}
	if rep.Matched != 2 {
		t.Errorf("Matched = %d, want 2", rep.Matched)
	}
	if len(rep.Unmatched) != 0 {
		t.Errorf("Unmatched = %v, want none", rep.Unmatched)
	}

	for i, want := range donorBefore.Bones {
		got := active.Bones[i]
		if got.Head != want.Head || got.Tail != want.Tail {
			t.Errorf("bone %q head/tail not copied", got.Name)
		}
		if got.Matrix != want.Matrix {
			t.Errorf("bone %q matrix not copied", got.Name)
		}
		if got.Roll != want.Roll {
			t.Errorf("bone %q roll = %v, want %v", got.Name, got.Roll, want.Roll)
		}
	}
	// The donor is read-only.
	for i, want := range donorBefore.Bones {
		if target.Bones[i].Head != want.Head || target.Bones[i].Roll != want.Roll {
			t.Errorf("donor bone %q was mutated", want.Name)
		}
	}

	// Copying back from the saved pre-copy state restores the original
	// transforms exactly.
	if _, err := align.Bones(active, activeBefore, align.DirectionActiveToTarget, true); err != nil {
		t.Fatalf("Bones (restore) failed: %v", err)
	}
	for i, want := range activeBefore.Bones {
		got := active.Bones[i]
		if got.Head != want.Head || got.Tail != want.Tail || got.Matrix != want.Matrix || got.Roll != want.Roll {
			t.Errorf("bone %q not restored from the saved state", got.Name)
		}
	}
}

func TestBones_MatrixCopyDoesNotAlias(t *testing.T) {
	active := posedRig("active", 1, [2]string{"hip", ""})
	target := posedRig("target", 5, [2]string{"hip", ""})

	if _, err := align.Bones(active, target, align.DirectionActiveToTarget, true); err != nil {
		t.Fatalf("Bones failed: %v", err)
	}

	copied := active.Bones[0].Matrix
	target.Bones[0].Matrix[0] = 999
	if active.Bones[0].Matrix != copied {
		t.Error("recipient matrix changed when donor matrix was edited after the copy")
	}
}

func TestBones_Direction(t *testing.T) {
	tests := []struct {
		name    string
		dir     align.Direction
		mutated string // rig that receives the copy
	}{
		{"active to target mutates active", align.DirectionActiveToTarget, "active"},
		{"target to active mutates target", align.DirectionTargetToActive, "target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active := posedRig("active", 1, [2]string{"hip", ""})
			target := posedRig("target", 5, [2]string{"hip", ""})

			if _, err := align.Bones(active, target, tt.dir, true); err != nil {
				t.Fatalf("Bones failed: %v", err)
			}

			activeMoved := active.Bones[0].Head.X() != 1
			targetMoved := target.Bones[0].Head.X() != 5
			switch tt.mutated {
			case "active":
				if !activeMoved || targetMoved {
					t.Errorf("activeMoved=%v targetMoved=%v, want active only", activeMoved, targetMoved)
				}
			case "target":
				if activeMoved || !targetMoved {
					t.Errorf("activeMoved=%v targetMoved=%v, want target only", activeMoved, targetMoved)
				}
			}
		})
	}
}

func TestBones_CaseInsensitiveScenario(t *testing.T) {
	// Recipient has hip, spine, head; donor has HIP and spine. With
	// case-insensitive matching two bones align and head stays unmatched.
	active := posedRig("active", 1,
		[2]string{"hip", ""}, [2]string{"spine", "hip"}, [2]string{"head", "spine"})
	target := posedRig("target", 5,
		[2]string{"HIP", ""}, [2]string{"spine", "HIP"})

	rep, err := align.Bones(active, target, align.DirectionActiveToTarget, false)
	if err != nil {
		t.Fatalf("Bones failed: %v", err)
	}
	if rep.Matched != 2 {
		t.Errorf("Matched = %d, want 2", rep.Matched)
	}
	if len(rep.Unmatched) != 1 || rep.Unmatched[0] != "head" {
		t.Errorf("Unmatched = %v, want [head]", rep.Unmatched)
	}
	if rep.HasSeverity(report.SeverityWarning) {
		t.Error("partial match must summarize as info, not warning")
	}
	if !rep.HasSeverity(report.SeverityInfo) {
		t.Error("expected an info summary message")
	}
	// The same pairing with case-sensitive matching aligns only spine.
	activeCS := posedRig("active", 1,
		[2]string{"hip", ""}, [2]string{"spine", "hip"}, [2]string{"head", "spine"})
	targetCS := posedRig("target", 5,
		[2]string{"HIP", ""}, [2]string{"spine", "HIP"})
	repCS, err := align.Bones(activeCS, targetCS, align.DirectionActiveToTarget, true)
	if err != nil {
		t.Fatalf("Bones failed: %v", err)
	}
	if repCS.Matched != 1 {
		t.Errorf("case-sensitive Matched = %d, want 1", repCS.Matched)
	}
}

func TestBones_NoMatchesWarns(t *testing.T) {
	active := posedRig("active", 1, [2]string{"hip", ""})
	target := posedRig("target", 5, [2]string{"pelvis", ""})

	rep, err := align.Bones(active, target, align.DirectionActiveToTarget, true)
	if err != nil {
		t.Fatalf("Bones failed: %v", err)
	}
	if rep.Matched != 0 {
		t.Errorf("Matched = %d, want 0", rep.Matched)
	}
	if !rep.HasSeverity(report.SeverityWarning) {
		t.Error("zero matches must produce a warning summary")
	}
}

func TestBones_Preconditions(t *testing.T) {
	full := func() *rig.Rig { return posedRig("full", 1, [2]string{"hip", ""}) }
	empty := &rig.Rig{Name: "empty"}

	tests := []struct {
		name           string
		active, target *rig.Rig
		dir            align.Direction
	}{
		{"empty active", empty, full(), align.DirectionActiveToTarget},
		{"empty target", full(), empty, align.DirectionActiveToTarget},
		{"bad direction", full(), full(), align.Direction("sideways")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := align.Bones(tt.active, tt.target, tt.dir, true)
			var pe *align.PreconditionError
			if !errors.As(err, &pe) {
				t.Fatalf("expected PreconditionError, got %T: %v", err, err)
			}
		})
	}
}

func TestBones_CycleSurfaces(t *testing.T) {
	active := &rig.Rig{Name: "active", Bones: []rig.Bone{
		{Name: "a", Parent: "b"},
		{Name: "b", Parent: "a"},
	}}
	target := posedRig("target", 5, [2]string{"a", ""}, [2]string{"b", "a"})

	_, err := align.Bones(active, target, align.DirectionActiveToTarget, true)
	var cycleErr *rig.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %T: %v", err, err)
	}
}
