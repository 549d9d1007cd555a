package rig

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// degenerateEpsilon is the minimum usable bone length. Bones shorter than
// this have no defined axis and no derivable matrix.
const degenerateEpsilon = 1e-9

// Direction returns the unit vector from head to tail. ok is false for a
// degenerate (zero-length) bone.
func Direction(head, tail mgl64.Vec3) (mgl64.Vec3, bool) {
	d := r3.Sub(
		r3.Vec{X: tail.X(), Y: tail.Y(), Z: tail.Z()},
		r3.Vec{X: head.X(), Y: head.Y(), Z: head.Z()},
	)
	if r3.Norm(d) < degenerateEpsilon {
		return mgl64.Vec3{}, false
	}
	u := r3.Unit(d)
	return mgl64.Vec3{u.X, u.Y, u.Z}, true
}

// EditMatrix derives a bone's 4x4 local matrix from its head, tail and roll:
// the shortest-arc rotation taking +Y onto the bone axis, followed by the
// roll rotation about the axis, translated to head. This mirrors how the
// host derives an edit bone's matrix from the same three fields.
func EditMatrix(head, tail mgl64.Vec3, roll float64) (mgl64.Mat4, error) {
	axis, ok := Direction(head, tail)
	if !ok {
		return mgl64.Mat4{}, fmt.Errorf("degenerate bone: head and tail coincide at %v", head)
	}
	swing := mgl64.QuatBetweenVectors(mgl64.Vec3{0, 1, 0}, axis)
	twist := mgl64.QuatRotate(roll, axis)
	rot := twist.Mul(swing).Mat4()
	return mgl64.Translate3D(head.X(), head.Y(), head.Z()).Mul4(rot), nil
}

// RollFromMatrix recovers the roll angle from a bone matrix: the residual
// rotation about the bone's own Y axis relative to the zero-roll frame
// EditMatrix would produce for that axis.
func RollFromMatrix(m mgl64.Mat4) float64 {
	rot := m.Mat3()
	axis := rot.Col(1)
	if axis.Len() < degenerateEpsilon {
		return 0
	}
	axis = axis.Normalize()
	zeroRoll := mgl64.QuatBetweenVectors(mgl64.Vec3{0, 1, 0}, axis).Mat4().Mat3()
	residual := zeroRoll.Transpose().Mul3(rot)
	return math.Atan2(residual.At(0, 2), residual.At(2, 2))
}

// EnsureMatrix fills in a zero-valued matrix from head/tail/roll. Bones
// loaded from scene files often carry only the three structural fields.
func (b *Bone) EnsureMatrix() error {
	if b.Matrix != (mgl64.Mat4{}) {
		return nil
	}
	m, err := EditMatrix(b.Head, b.Tail, b.Roll)
	if err != nil {
		return fmt.Errorf("bone %q: %w", b.Name, err)
	}
	b.Matrix = m
	return nil
}
