package geometry

import "fmt"

// Transformer maps points and rects between display space (pixels inside the
// preview overlay bounds) and sensor space ([-1000, 1000] on both axes).
//
// A Transformer is built once per orientation snapshot and bounds; rebuild it
// when the display rotation, the attached sensor or the layout changes.
type Transformer struct {
	bounds Rect
	angle  int
	front  bool
}

// NewTransformer computes the display-orientation angle for s and binds it to
// the overlay bounds. It fails with ErrDegenerateBounds for zero-area bounds.
func NewTransformer(s OrientationState, bounds Rect) (*Transformer, error) {
	bounds = bounds.Canonical()
	if bounds.Width() == 0 || bounds.Height() == 0 {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateBounds, bounds)
	}
	return &Transformer{
		bounds: bounds,
		angle:  DisplayOrientation(s),
		front:  s.Front,
	}, nil
}

// Angle returns the display-orientation angle in degrees.
func (t *Transformer) Angle() int { return t.angle }

// Bounds returns the overlay bounds in display pixels.
func (t *Transformer) Bounds() Rect { return t.bounds }

// ToSensor maps a display-space point into sensor space.
func (t *Transformer) ToSensor(p Point) Point {
	w := float64(t.bounds.Width())
	h := float64(t.bounds.Height())

	x := (p.X-float64(t.bounds.Left))/w*sensorSpan + SensorMin
	y := (p.Y-float64(t.bounds.Top))/h*sensorSpan + SensorMin

	x, y = rotateCounterClockwise(x, y, t.angle)
	if t.front {
		x = -x
	}
	return Point{
		X: clampFloat(x, SensorMin, SensorMax),
		Y: clampFloat(y, SensorMin, SensorMax),
	}
}

// ToDisplay maps a sensor-space point into display space, clamped to the bounds.
func (t *Transformer) ToDisplay(p Point) Point {
	x, y := p.X, p.Y
	if t.front {
		x = -x
	}
	x, y = rotateClockwise(x, y, t.angle)

	w := float64(t.bounds.Width())
	h := float64(t.bounds.Height())
	x = float64(t.bounds.Left) + (x-SensorMin)/sensorSpan*w
	y = float64(t.bounds.Top) + (y-SensorMin)/sensorSpan*h

	return Point{
		X: clampFloat(x, float64(t.bounds.Left), float64(t.bounds.Right)),
		Y: clampFloat(y, float64(t.bounds.Top), float64(t.bounds.Bottom)),
	}
}

// RectToSensor maps a display-space rect into sensor space. Rotation can swap
// which corner is the minimum, so the result is re-normalised.
func (t *Transformer) RectToSensor(r Rect) Rect {
	a := t.ToSensor(Point{X: float64(r.Left), Y: float64(r.Top)})
	b := t.ToSensor(Point{X: float64(r.Right), Y: float64(r.Bottom)})
	return cornersToRect(a, b)
}

// RectToDisplay maps a sensor-space rect into display space.
func (t *Transformer) RectToDisplay(r Rect) Rect {
	a := t.ToDisplay(Point{X: float64(r.Left), Y: float64(r.Top)})
	b := t.ToDisplay(Point{X: float64(r.Right), Y: float64(r.Bottom)})
	return cornersToRect(a, b)
}

// AreaAt builds a sensor-space focus or metering area centred on the display
// point (x, y). areaWidth and areaHeight are in display pixels.
func (t *Transformer) AreaAt(x, y float64, areaWidth, areaHeight int) (Rect, error) {
	if t == nil || t.bounds.Width() == 0 || t.bounds.Height() == 0 {
		return Rect{}, ErrDegenerateBounds
	}
	center := t.ToSensor(Point{X: x, Y: y})

	halfW := float64(areaWidth) * 0.5 * sensorSpan / float64(t.bounds.Width())
	halfH := float64(areaHeight) * 0.5 * sensorSpan / float64(t.bounds.Height())
	if t.angle == 90 || t.angle == 270 {
		halfW, halfH = halfH, halfW
	}

	return Rect{
		Left:   clampInt(roundHalfUp(center.X-halfW), SensorMin, SensorMax),
		Top:    clampInt(roundHalfUp(center.Y-halfH), SensorMin, SensorMax),
		Right:  clampInt(roundHalfUp(center.X+halfW), SensorMin, SensorMax),
		Bottom: clampInt(roundHalfUp(center.Y+halfH), SensorMin, SensorMax),
	}, nil
}

// AreaAt is a one-shot helper for hosts that do not keep a Transformer.
func AreaAt(s OrientationState, bounds Rect, x, y float64, areaWidth, areaHeight int) (Rect, error) {
	t, err := NewTransformer(s, bounds)
	if err != nil {
		return Rect{}, err
	}
	return t.AreaAt(x, y, areaWidth, areaHeight)
}

func cornersToRect(a, b Point) Rect {
	return Rect{
		Left:   roundHalfUp(a.X),
		Top:    roundHalfUp(a.Y),
		Right:  roundHalfUp(b.X),
		Bottom: roundHalfUp(b.Y),
	}.Canonical()
}

// rotateClockwise rotates in y-down coordinates, so 90 takes +x to +y.
func rotateClockwise(x, y float64, angle int) (float64, float64) {
	switch angle {
	case 90:
		return -y, x
	case 180:
		return -x, -y
	case 270:
		return y, -x
	}
	return x, y
}

func rotateCounterClockwise(x, y float64, angle int) (float64, float64) {
	switch angle {
	case 90:
		return y, -x
	case 180:
		return -x, -y
	case 270:
		return -y, x
	}
	return x, y
}
