package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Resolution is one sensor-supported preview size, in the sensor's native
// (landscape) orientation.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Aspect returns width/height.
func (r Resolution) Aspect() float64 {
	if r.Height == 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}

// IsZero reports whether the resolution is unset.
func (r Resolution) IsZero() bool {
	return r.Width == 0 && r.Height == 0
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// ParseResolution parses "WIDTHxHEIGHT".
func ParseResolution(s string) (Resolution, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Resolution{}, fmt.Errorf("invalid resolution %q: want WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution %q: %w", s, err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return Resolution{}, fmt.Errorf("invalid resolution %q: dimensions must be positive", s)
	}
	return Resolution{Width: width, Height: height}, nil
}

// Aspect matching parameters. The tolerance schedule widens 0.01 -> 0.1 and
// stops before 1.0, but each pass compares against the fixed aspectThreshold.
const (
	aspectThreshold     = 0.1
	toleranceStart      = 0.01
	toleranceGrowth     = 10.0
	toleranceUpperLimit = 1.0
)

// SelectPreviewSize picks the preview size for a surface. It prefers the first
// candidate (in the given order) whose aspect ratio is within 0.1 of the
// surface's and which is strictly smaller than the surface; failing that, the
// first candidate that merely fits. Portrait surfaces are matched against their
// swapped aspect ratio since sizes are enumerated in landscape.
//
// The fallback for a portrait surface fits candidates inside the swapped
// bounds (height x width), so its result need not be strictly smaller than the
// surface: a 600x1000 surface offered only 800x480 gets 800x480.
//
// supported is never modified.
func SelectPreviewSize(supported []Resolution, surfaceWidth, surfaceHeight int) (Resolution, bool) {
	landscape := surfaceWidth > surfaceHeight
	if r, ok := findBestMatching(supported, surfaceWidth, surfaceHeight, landscape); ok {
		return r, true
	}
	if landscape {
		return findLargestFitting(supported, surfaceWidth, surfaceHeight)
	}
	return findLargestFitting(supported, surfaceHeight, surfaceWidth)
}

// SelectPreviewSizeErr is SelectPreviewSize returning ErrNoMatchingResolution
// when nothing fits.
func SelectPreviewSizeErr(supported []Resolution, surfaceWidth, surfaceHeight int) (Resolution, error) {
	if surfaceWidth <= 0 || surfaceHeight <= 0 {
		return Resolution{}, fmt.Errorf("%w: %dx%d", ErrInvalidExtent, surfaceWidth, surfaceHeight)
	}
	r, ok := SelectPreviewSize(supported, surfaceWidth, surfaceHeight)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: surface %dx%d, %d candidates",
			ErrNoMatchingResolution, surfaceWidth, surfaceHeight, len(supported))
	}
	return r, nil
}

func findBestMatching(supported []Resolution, surfaceWidth, surfaceHeight int, landscape bool) (Resolution, bool) {
	effW, effH := float64(surfaceWidth), float64(surfaceHeight)
	if !landscape {
		effW, effH = effH, effW
	}
	if effH == 0 {
		return Resolution{}, false
	}
	target := effW / effH

	for tolerance := toleranceStart; tolerance < toleranceUpperLimit; tolerance *= toleranceGrowth {
		for _, size := range supported {
			if size.Height == 0 {
				continue
			}
			diff := math.Abs(target - size.Aspect())
			if size.Width < surfaceWidth && size.Height < surfaceHeight && diff < aspectThreshold {
				return size, true
			}
		}
	}
	return Resolution{}, false
}

func findLargestFitting(supported []Resolution, boundWidth, boundHeight int) (Resolution, bool) {
	for _, size := range supported {
		if size.Width < boundWidth && size.Height < boundHeight {
			return size, true
		}
	}
	return Resolution{}, false
}
