// Package facedetect finds faces in preview frames and converts them into
// sensor-space faces.
package facedetect

// Landmark is a facial keypoint, normalised 0-1 to the frame.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmark indices as emitted by YuNet.
const (
	LandmarkRightEye = iota
	LandmarkLeftEye
	LandmarkNose
	LandmarkRightMouth
	LandmarkLeftMouth
	LandmarkCount
)

// Detection represents a detected face
type Detection struct {
	X, Y       float64    // Top-left corner (0-1 normalized)
	W, H       float64    // Width and height (0-1 normalized)
	Confidence float64    // Detection confidence (0-1)
	Landmarks  []Landmark // Empty or one entry per Landmark* index
}

// Area returns the area of the bounding box
func (d Detection) Area() float64 {
	return d.W * d.H
}

// HasLandmarks reports whether all five keypoints are present.
func (d Detection) HasLandmarks() bool {
	return len(d.Landmarks) >= LandmarkCount
}

// Detector is the interface for face detection backends
type Detector interface {
	// Detect finds faces in a JPEG frame captured in the sensor's native orientation
	Detect(jpeg []byte) ([]Detection, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float64 // Minimum confidence (default 0.5)
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultConfig returns production defaults for YuNet
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.5,
		InputWidth:       320,
		InputHeight:      320,
	}
}

// SelectBest picks the best face from multiple detections
// Priority: confidence * 0.7 + area * 0.3
func SelectBest(dets []Detection) *Detection {
	if len(dets) == 0 {
		return nil
	}

	if len(dets) == 1 {
		return &dets[0]
	}

	maxArea := 0.0
	for _, d := range dets {
		if d.Area() > maxArea {
			maxArea = d.Area()
		}
	}
	if maxArea == 0 {
		maxArea = 1
	}

	bestScore := -1.0
	var best *Detection

	for i := range dets {
		score := dets[i].Confidence*0.7 + (dets[i].Area()/maxArea)*0.3
		if score > bestScore {
			bestScore = score
			best = &dets[i]
		}
	}

	return best
}
