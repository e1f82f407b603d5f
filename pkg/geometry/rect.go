package geometry

import (
	"fmt"
	"math"
)

// Sensor area coordinate range, fixed by the camera API on both axes.
const (
	SensorMin = -1000
	SensorMax = 1000

	sensorSpan = SensorMax - SensorMin
)

// Point is a position in either display pixels or sensor units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle. It carries no coordinate-space tag;
// callers track whether it is in display or sensor space.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns Right - Left.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether the rect has zero or negative area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Contains reports whether (x, y) is inside the half-open rect.
func (r Rect) Contains(x, y int) bool {
	return r.Left < r.Right && r.Top < r.Bottom &&
		x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Center returns the midpoint.
func (r Rect) Center() Point {
	return Point{
		X: float64(r.Left+r.Right) / 2,
		Y: float64(r.Top+r.Bottom) / 2,
	}
}

// Canonical reorders the edges so Left <= Right and Top <= Bottom.
func (r Rect) Canonical() Rect {
	if r.Left > r.Right {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Top > r.Bottom {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d, %d - %d, %d)", r.Left, r.Top, r.Right, r.Bottom)
}

// roundHalfUp matches the platform's Math.round: floor(v + 0.5).
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
