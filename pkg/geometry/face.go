package geometry

// Face is a detected face. Coordinates are in sensor space as reported by the
// detector, or display space after FaceToDisplay.
type Face struct {
	Rect     Rect   `json:"rect"`
	Score    int    `json:"score"` // 1-100
	ID       int    `json:"id,omitempty"`
	LeftEye  *Point `json:"left_eye,omitempty"`
	RightEye *Point `json:"right_eye,omitempty"`
	Mouth    *Point `json:"mouth,omitempty"`
}

// FaceToDisplay maps a sensor-space face into display space for overlay
// rendering. Landmarks are mapped only when all three are present.
func (t *Transformer) FaceToDisplay(f Face) Face {
	out := Face{
		Rect:  t.RectToDisplay(f.Rect),
		Score: f.Score,
		ID:    f.ID,
	}
	if f.LeftEye != nil && f.RightEye != nil && f.Mouth != nil {
		out.LeftEye = t.mapLandmark(*f.LeftEye)
		out.RightEye = t.mapLandmark(*f.RightEye)
		out.Mouth = t.mapLandmark(*f.Mouth)
	}
	return out
}

// FacesToDisplay maps every face.
func (t *Transformer) FacesToDisplay(faces []Face) []Face {
	out := make([]Face, 0, len(faces))
	for _, f := range faces {
		out = append(out, t.FaceToDisplay(f))
	}
	return out
}

func (t *Transformer) mapLandmark(p Point) *Point {
	d := t.ToDisplay(p)
	return &d
}
