// Package geometry computes camera preview geometry: preview size selection,
// display-orientation compensation and mapping between display pixels and the
// sensor's [-1000, 1000] area coordinate space.
//
// Everything here is a pure function of its inputs. Hosts own the state and
// pass snapshots in.
package geometry

import "fmt"

// Rotation is one of the four right-angle orientation classes.
type Rotation int

const (
	RotationZero Rotation = iota
	RotationNinety
	RotationOneEighty
	RotationTwoSeventy
)

// rotationWindow is the half-width in degrees of each class's acceptance window.
const rotationWindow = 5

// Rotations lists the classes in classification order.
var Rotations = []Rotation{RotationZero, RotationNinety, RotationOneEighty, RotationTwoSeventy}

// Degrees returns the nominal angle of the class.
func (r Rotation) Degrees() int {
	return int(r) * 90
}

func (r Rotation) String() string {
	switch r {
	case RotationZero:
		return "ZERO"
	case RotationNinety:
		return "NINETY"
	case RotationOneEighty:
		return "ONE_EIGHTY"
	case RotationTwoSeventy:
		return "TWO_SEVENTY"
	}
	return fmt.Sprintf("Rotation(%d)", int(r))
}

// Contains reports whether raw (any integer, taken modulo 360) lies inside
// [nominal-5, nominal+5]. The ZERO window wraps across 0/360.
func (r Rotation) Contains(raw int) bool {
	deg := normalizeDegrees(raw)
	lower := normalizeDegrees(r.Degrees() - rotationWindow)
	upper := normalizeDegrees(r.Degrees() + rotationWindow)
	if lower < upper {
		return deg >= lower && deg <= upper
	}
	return deg >= lower || deg <= upper
}

// Classify buckets a raw orientation reading. It returns false when the
// reading falls in a dead zone between windows.
func Classify(raw int) (Rotation, bool) {
	for _, r := range Rotations {
		if r.Contains(raw) {
			return r, true
		}
	}
	return RotationZero, false
}

// ClassifyErr is Classify with ErrUnclassifiedRotation for dead-zone readings.
func ClassifyErr(raw int) (Rotation, error) {
	r, ok := Classify(raw)
	if !ok {
		return r, fmt.Errorf("%w: %d", ErrUnclassifiedRotation, raw)
	}
	return r, nil
}

// OrientationTracker remembers the last classified rotation. Readings in a
// dead zone keep the previous class, so only a reading that lands squarely in
// another window counts as a transition.
type OrientationTracker struct {
	current Rotation
	known   bool
}

// Update feeds a raw reading and reports whether the class changed.
func (t *OrientationTracker) Update(raw int) (Rotation, bool) {
	r, ok := Classify(raw)
	if !ok {
		return t.current, false
	}
	if t.known && r == t.current {
		return r, false
	}
	t.current = r
	t.known = true
	return r, true
}

// Current returns the last classified rotation and whether any reading has classified yet.
func (t *OrientationTracker) Current() (Rotation, bool) {
	return t.current, t.known
}

func normalizeDegrees(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}
