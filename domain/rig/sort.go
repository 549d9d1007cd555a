package rig

import "fmt"

// CycleError reports a parent chain that loops back on itself. The host is
// supposed to keep hierarchies acyclic; failing loudly here beats spinning
// forever on corrupt data.
type CycleError struct {
	Rig  string
	Bone string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("parent cycle through bone %q in rig %q", e.Bone, e.Rig)
}

// SortHierarchy orders the rig's bones so every bone appears after its
// parent and before its descendants. Siblings keep the relative order of
// their first encounter in r.Bones, so the output is deterministic for a
// fixed input order. The result is a permutation of r.Bones as pointers into
// the rig; no bone is added, dropped or duplicated.
//
// Returns CycleError when a parent chain loops, and a plain error when a
// bone names a parent that is not in the rig.
func SortHierarchy(r *Rig) ([]*Bone, error) {
	sorted := make([]*Bone, 0, len(r.Bones))
	placed := make(map[string]bool, len(r.Bones))
	onStack := make(map[string]bool)

	var place func(b *Bone) error
	place = func(b *Bone) error {
		if placed[b.Name] {
			return nil
		}
		if onStack[b.Name] {
			return &CycleError{Rig: r.Name, Bone: b.Name}
		}
		onStack[b.Name] = true
		defer delete(onStack, b.Name)

		if b.Parent != "" {
			parent, ok := r.Bone(b.Parent)
			if !ok {
				return fmt.Errorf("bone %q references unknown parent %q in rig %q", b.Name, b.Parent, r.Name)
			}
			if err := place(parent); err != nil {
				return err
			}
		}
		placed[b.Name] = true
		sorted = append(sorted, b)
		return nil
	}

	for i := range r.Bones {
		if err := place(&r.Bones[i]); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}
