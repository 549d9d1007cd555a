package align

import (
	"github.com/maylog/bonealign/domain/report"
	"github.com/maylog/bonealign/domain/rig"
)

// BoneRef names one bone within a rig the caller already holds. Pose-mode
// selections can span several rigs, so clear takes explicit references
// instead of a single rig.
type BoneRef struct {
	Rig  *rig.Rig
	Name string
}

// Clear removes every constraint from each of the selected bones, whatever
// the constraint's kind or target. Selection may not be empty; an unknown
// bone reference aborts before any mutation.
func Clear(selected []BoneRef) (report.Report, error) {
	var rep report.Report
	if len(selected) == 0 {
		return rep, Preconditionf("no bones selected")
	}

	bones := make([]*rig.Bone, 0, len(selected))
	for _, ref := range selected {
		b, ok := ref.Rig.Bone(ref.Name)
		if !ok {
			return rep, Preconditionf("selected bone %q not found in rig %q", ref.Name, ref.Rig.Name)
		}
		bones = append(bones, b)
	}

	cleared := 0
	for _, b := range bones {
		if n := len(b.Constraints); n > 0 {
			rep.Removed += n
			cleared++
			rep.Infof("removed %d constraint(s) from %q", n, b.Name)
		}
		b.Constraints = nil
	}

	if rep.Removed == 0 {
		rep.Warnf("selected bones have no constraints")
		return rep, nil
	}
	rep.Infof("removed %d constraint(s) from %d bone(s)", rep.Removed, cleared)
	return rep, nil
}
