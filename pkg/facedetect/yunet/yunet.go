// Package yunet runs OpenCV's FaceDetectorYN through gocv. Importing it links
// OpenCV; package facedetect does not.
package yunet

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-camview/internal/log"
	"github.com/teslashibe/go-camview/pkg/facedetect"
)

var _ facedetect.Detector = (*Detector)(nil)

// Detector uses OpenCV's FaceDetectorYN for face detection
type Detector struct {
	detector gocv.FaceDetectorYN
	config   facedetect.Config
	mu       sync.Mutex // Protects inference
}

// New creates a YuNet face detector using GoCV's built-in FaceDetectorYN
func New(cfg facedetect.Config) (*Detector, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	// Input size is updated per frame.
	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"",
		image.Pt(cfg.InputWidth, cfg.InputHeight),
		float32(cfg.ConfidenceThresh),
		0.3,  // NMS threshold
		5000, // Top K
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &Detector{
		detector: detector,
		config:   cfg,
	}, nil
}

// Detect finds faces in the JPEG frame
func (d *Detector) Detect(jpeg []byte) ([]facedetect.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	imgW := float64(img.Cols())
	imgH := float64(img.Rows())

	d.detector.SetInputSize(image.Pt(img.Cols(), img.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()

	d.detector.Detect(img, &faces)

	var detections []facedetect.Detection
	for r := 0; r < faces.Rows(); r++ {
		// YuNet output format (15 columns):
		// 0-3: x, y, w, h (bounding box in pixels)
		// 4-13: 5 facial landmarks (x,y pairs)
		// 14: face score
		det := facedetect.Detection{
			X:          float64(faces.GetFloatAt(r, 0)) / imgW,
			Y:          float64(faces.GetFloatAt(r, 1)) / imgH,
			W:          float64(faces.GetFloatAt(r, 2)) / imgW,
			H:          float64(faces.GetFloatAt(r, 3)) / imgH,
			Confidence: float64(faces.GetFloatAt(r, 14)),
			Landmarks:  make([]facedetect.Landmark, facedetect.LandmarkCount),
		}
		for i := 0; i < facedetect.LandmarkCount; i++ {
			det.Landmarks[i] = facedetect.Landmark{
				X: float64(faces.GetFloatAt(r, 4+2*i)) / imgW,
				Y: float64(faces.GetFloatAt(r, 5+2*i)) / imgH,
			}
		}
		detections = append(detections, det)
	}

	if len(detections) > 0 {
		log.Debug("yunet detected faces", "count", len(detections), "width", img.Cols(), "height", img.Rows())
	}

	return detections, nil
}

// Close releases the detector resources
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Close()
	return nil
}
