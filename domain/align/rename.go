package align

import (
	"github.com/maylog/bonealign/domain/report"
	"github.com/maylog/bonealign/domain/rig"
)

// RenameBone renames one of the two designated bones to the other's current
// name. DirectionActiveToTarget gives the active bone the other bone's name;
// DirectionTargetToActive gives the other bone the active bone's name. The
// two bones may live in the same rig or in two rigs of a multi-rig edit
// session; a rename that would duplicate a name inside one rig surfaces the
// rig's NameConflictError and mutates nothing.
func RenameBone(activeRig *rig.Rig, activeBone string, otherRig *rig.Rig, otherBone string, dir Direction) (report.Report, error) {
	var rep report.Report
	if !dir.Valid() {
		return rep, Preconditionf("unknown direction %q", dir)
	}
	if _, ok := activeRig.Bone(activeBone); !ok {
		return rep, Preconditionf("active bone %q not found in rig %q", activeBone, activeRig.Name)
	}
	if _, ok := otherRig.Bone(otherBone); !ok {
		return rep, Preconditionf("bone %q not found in rig %q", otherBone, otherRig.Name)
	}

	if activeBone == otherBone {
		rep.Warnf("bones are already named %q", activeBone)
		return rep, nil
	}

	owner, from, to := otherRig, otherBone, activeBone
	if dir == DirectionActiveToTarget {
		owner, from, to = activeRig, activeBone, otherBone
	}
	if err := owner.Rename(from, to); err != nil {
		return rep, err
	}
	rep.Matched = 1
	rep.Infof("renamed %q to %q in rig %q", from, to, owner.Name)
	return rep, nil
}
