package geometry

// OrientationState is the snapshot the display-orientation angle depends on.
type OrientationState struct {
	DisplayRotation int  `json:"display_rotation"` // 0, 90, 180 or 270
	SensorMount     int  `json:"sensor_mount"`     // 0-359, hardware constant per sensor
	Front           bool `json:"front"`
}

// DisplayOrientation returns the clockwise rotation (0/90/180/270) to apply to
// the sensor stream so it appears upright. Front-facing sensors are mirrored.
func DisplayOrientation(s OrientationState) int {
	d := normalizeDegrees(s.DisplayRotation)
	mount := normalizeDegrees(s.SensorMount)
	if s.Front {
		return MirrorAngle((mount + d) % 360)
	}
	return (mount - d + 360) % 360
}

// UnmirroredOrientation returns (mount + display) mod 360, the front-facing
// angle before mirror compensation is applied.
func UnmirroredOrientation(s OrientationState) int {
	return (normalizeDegrees(s.SensorMount) + normalizeDegrees(s.DisplayRotation)) % 360
}

// MirrorAngle compensates a rotation for a laterally reversed image.
func MirrorAngle(angle int) int {
	return (360 - normalizeDegrees(angle)) % 360
}

// DisplayRotationFromSurface converts a platform surface rotation index
// (0..3) into degrees.
func DisplayRotationFromSurface(index int) int {
	switch index {
	case 1:
		return 90
	case 2:
		return 180
	case 3:
		return 270
	}
	return 0
}
