package rig_test

import (
	"errors"
	"testing"

	"github.com/maylog/bonealign/domain/rig"
)

func humanoid() *rig.Rig {
	// Deliberately out of hierarchy order: children listed before parents.
	return &rig.Rig{
		Name: "humanoid",
		Bones: []rig.Bone{
			{Name: "head", Parent: "spine"},
			{Name: "hand.L", Parent: "arm.L"},
			{Name: "spine", Parent: "hip"},
			{Name: "arm.L", Parent: "spine"},
			{Name: "arm.R", Parent: "spine"},
			{Name: "hip"},
		},
	}
}

func TestSortHierarchy_ParentsFirst(t *testing.T) {
	r := humanoid()

	sorted, err := rig.SortHierarchy(r)
	if err != nil {
		t.Fatalf("SortHierarchy failed: %v", err)
	}

	position := make(map[string]int, len(sorted))
	for i, b := range sorted {
		position[b.Name] = i
	}

	for _, b := range r.Bones {
		if b.Parent == "" {
			continue
		}
		if position[b.Parent] >= position[b.Name] {
			t.Errorf("bone %q at %d appears before its parent %q at %d",
				b.Name, position[b.Name], b.Parent, position[b.Parent])
		}
	}
}

func TestSortHierarchy_Permutation(t *testing.T) {
	r := humanoid()

	sorted, err := rig.SortHierarchy(r)
	if err != nil {
		t.Fatalf("SortHierarchy failed: %v", err)
	}

	if len(sorted) != len(r.Bones) {
		t.Fatalf("sorted has %d bones, want %d", len(sorted), len(r.Bones))
	}
	seen := make(map[string]bool)
	for _, b := range sorted {
		if seen[b.Name] {
			t.Errorf("bone %q appears twice", b.Name)
		}
		seen[b.Name] = true
		if _, ok := r.Bone(b.Name); !ok {
			t.Errorf("bone %q not part of the input rig", b.Name)
		}
	}
}

func TestSortHierarchy_SiblingOrderStable(t *testing.T) {
	r := humanoid()

	sorted, err := rig.SortHierarchy(r)
	if err != nil {
		t.Fatalf("SortHierarchy failed: %v", err)
	}

	position := make(map[string]int, len(sorted))
	for i, b := range sorted {
		position[b.Name] = i
	}

	// arm.L is encountered before arm.R in the input; both are children of
	// spine and must keep that relative order.
	if position["arm.L"] > position["arm.R"] {
		t.Errorf("sibling order changed: arm.L at %d, arm.R at %d",
			position["arm.L"], position["arm.R"])
	}
	// head is first in the input, so the first placed chain is hip, spine,
	// head.
	want := []string{"hip", "spine", "head"}
	for i, name := range want {
		if sorted[i].Name != name {
			t.Errorf("sorted[%d] = %q, want %q", i, sorted[i].Name, name)
		}
	}
}

func TestSortHierarchy_Cycle(t *testing.T) {
	r := &rig.Rig{
		Name: "broken",
		Bones: []rig.Bone{
			{Name: "a", Parent: "b"},
			{Name: "b", Parent: "a"},
		},
	}

	_, err := rig.SortHierarchy(r)
	if err == nil {
		t.Fatal("expected error for parent cycle")
	}
	var cycleErr *rig.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %T: %v", err, err)
	}
	if cycleErr.Rig != "broken" {
		t.Errorf("CycleError.Rig = %q, want %q", cycleErr.Rig, "broken")
	}
}

func TestSortHierarchy_SelfParent(t *testing.T) {
	r := &rig.Rig{
		Name:  "broken",
		Bones: []rig.Bone{{Name: "a", Parent: "a"}},
	}

	_, err := rig.SortHierarchy(r)
	var cycleErr *rig.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %T: %v", err, err)
	}
}

func TestSortHierarchy_UnknownParent(t *testing.T) {
	r := &rig.Rig{
		Name:  "broken",
		Bones: []rig.Bone{{Name: "a", Parent: "ghost"}},
	}

	_, err := rig.SortHierarchy(r)
	if err == nil {
		t.Fatal("expected error for unknown parent")
	}
	var cycleErr *rig.CycleError
	if errors.As(err, &cycleErr) {
		t.Fatalf("unknown parent should not be reported as a cycle: %v", err)
	}
}

func TestSortHierarchy_Empty(t *testing.T) {
	sorted, err := rig.SortHierarchy(&rig.Rig{Name: "empty"})
	if err != nil {
		t.Fatalf("SortHierarchy failed: %v", err)
	}
	if len(sorted) != 0 {
		t.Errorf("expected empty result, got %d bones", len(sorted))
	}
}
