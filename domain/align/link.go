package align

import (
	"github.com/maylog/bonealign/domain/report"
	"github.com/maylog/bonealign/domain/rig"
)

// Link installs a copy-transforms constraint on each bone of the recipient
// rig that has a same-named bone in the donor rig (pose-mode path). Bones are
// visited in the recipient's input order; no hierarchy sort is needed because
// constraints reference targets by name.
//
// Linking is idempotent: an equivalent constraint (same kind, same target rig
// and bone) already present on the recipient bone is removed before the new
// one is appended, so re-running leaves exactly one live link per pair.
func Link(active, target *rig.Rig, dir Direction, caseSensitive bool) (report.Report, error) {
	var rep report.Report
	if active.Len() == 0 {
		return rep, Preconditionf("rig %q has no bones", active.Name)
	}
	if target.Len() == 0 {
		return rep, Preconditionf("rig %q has no bones", target.Name)
	}
	if !dir.Valid() {
		return rep, Preconditionf("unknown direction %q", dir)
	}

	recipient, donor := pick(active, target, dir)
	index := donor.NameIndex(caseSensitive)

	for i := range recipient.Bones {
		b := &recipient.Bones[i]
		d, ok := index[rig.Key(b.Name, caseSensitive)]
		if !ok {
			rep.Unmatched = append(rep.Unmatched, b.Name)
			continue
		}
		c := rig.Constraint{
			Kind:        rig.KindCopyTransforms,
			TargetRig:   donor.Name,
			TargetBone:  d.Name,
			OwnerSpace:  rig.SpaceWorld,
			TargetSpace: rig.SpaceWorld,
			Enabled:     true,
		}
		b.Constraints = replaceEquivalent(b.Constraints, c)
		rep.Matched++
		rep.Infof("linked %q to %s/%q", b.Name, donor.Name, d.Name)
	}
	rep.Summarize("linked")
	return rep, nil
}

// replaceEquivalent removes any constraint equivalent to c, then appends c.
func replaceEquivalent(list []rig.Constraint, c rig.Constraint) []rig.Constraint {
	kept := list[:0]
	for _, existing := range list {
		if !existing.Equivalent(c) {
			kept = append(kept, existing)
		}
	}
	return append(kept, c)
}
