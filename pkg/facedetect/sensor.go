package facedetect

import (
	"math"

	"github.com/teslashibe/go-camview/pkg/geometry"
)

// ToSensorFace converts a detection on a native-orientation frame into a
// sensor-space face. Coordinates are clamped to [-1000, 1000] and the score
// scaled to 1-100. Landmarks map to the eyes and the midpoint of the mouth
// corners when the detection carries all of them.
func ToSensorFace(d Detection, id int) geometry.Face {
	f := geometry.Face{
		Rect: geometry.Rect{
			Left:   toSensor(d.X),
			Top:    toSensor(d.Y),
			Right:  toSensor(d.X + d.W),
			Bottom: toSensor(d.Y + d.H),
		}.Canonical(),
		Score: score(d.Confidence),
		ID:    id,
	}
	if d.HasLandmarks() {
		f.LeftEye = sensorPoint(d.Landmarks[LandmarkLeftEye])
		f.RightEye = sensorPoint(d.Landmarks[LandmarkRightEye])
		right, left := d.Landmarks[LandmarkRightMouth], d.Landmarks[LandmarkLeftMouth]
		f.Mouth = sensorPoint(Landmark{X: (right.X + left.X) / 2, Y: (right.Y + left.Y) / 2})
	}
	return f
}

// ToSensorFaces converts every detection, numbering faces from 1.
func ToSensorFaces(dets []Detection) []geometry.Face {
	faces := make([]geometry.Face, 0, len(dets))
	for i, d := range dets {
		faces = append(faces, ToSensorFace(d, i+1))
	}
	return faces
}

func toSensor(n float64) int {
	v := int(math.Floor(n*2000 - 1000 + 0.5))
	return max(geometry.SensorMin, min(geometry.SensorMax, v))
}

func sensorPoint(l Landmark) *geometry.Point {
	return &geometry.Point{X: float64(toSensor(l.X)), Y: float64(toSensor(l.Y))}
}

func score(confidence float64) int {
	s := int(math.Floor(confidence*100 + 0.5))
	return max(1, min(100, s))
}
