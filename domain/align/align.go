// Package align implements the bone operations shared by every command:
// transform copying, renaming, constraint linking and constraint clearing.
// All functions are pure joins and in-place field writes over rigs handed in
// by the caller; committing the batched scene refresh is the caller's job.
package align

import (
	"github.com/maylog/bonealign/domain/report"
	"github.com/maylog/bonealign/domain/rig"
)

// Direction selects which of the two rigs receives the operation's writes.
type Direction string

const (
	// DirectionActiveToTarget aligns (or links) the active rig's bones to
	// the target rig: the active rig is mutated.
	DirectionActiveToTarget Direction = "active_to_target"
	// DirectionTargetToActive mutates the target rig instead.
	DirectionTargetToActive Direction = "target_to_active"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionActiveToTarget || d == DirectionTargetToActive
}

// Pair is one matched (recipient, donor) bone couple.
type Pair struct {
	Recipient *rig.Bone
	Donor     *rig.Bone
}

// MatchSet is the ephemeral result of joining two rigs by bone name.
type MatchSet struct {
	Pairs     []Pair
	Unmatched []string // recipient-side bone names with no donor counterpart
}

// matchSorted traverses the recipient rig in hierarchy order and pairs each
// bone with a same-named bone from the donor's name index.
func matchSorted(recipient, donor *rig.Rig, caseSensitive bool) (MatchSet, error) {
	sorted, err := rig.SortHierarchy(recipient)
	if err != nil {
		return MatchSet{}, err
	}
	index := donor.NameIndex(caseSensitive)

	var set MatchSet
	for _, b := range sorted {
		d, ok := index[rig.Key(b.Name, caseSensitive)]
		if !ok {
			set.Unmatched = append(set.Unmatched, b.Name)
			continue
		}
		set.Pairs = append(set.Pairs, Pair{Recipient: b, Donor: d})
	}
	return set, nil
}

// pick resolves the direction flag into (recipient, donor) rigs.
func pick(active, target *rig.Rig, dir Direction) (*rig.Rig, *rig.Rig) {
	if dir == DirectionTargetToActive {
		return target, active
	}
	return active, target
}

// copyTransform overwrites the recipient's structural fields with the
// donor's: head, tail, matrix, roll, in that order. Matrix is an array
// value, so the assignment copies and never aliases the donor's storage.
func copyTransform(recipient, donor *rig.Bone) {
	recipient.Head = donor.Head
	recipient.Tail = donor.Tail
	recipient.Matrix = donor.Matrix
	recipient.Roll = donor.Roll
}

// Bones copies transforms between same-named bones of the two rigs
// (edit-mode path). The recipient rig is traversed in hierarchy order;
// unmatched recipient bones are collected in the report. Both rigs must be
// non-empty.
func Bones(active, target *rig.Rig, dir Direction, caseSensitive bool) (report.Report, error) {
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
	set, err := matchSorted(recipient, donor, caseSensitive)
	if err != nil {
		return rep, err
	}

	for _, p := range set.Pairs {
		copyTransform(p.Recipient, p.Donor)
		rep.Matched++
		rep.Infof("aligned %q to %q", p.Recipient.Name, p.Donor.Name)
	}
	rep.Unmatched = set.Unmatched
	rep.Summarize("aligned")
	return rep, nil
}
