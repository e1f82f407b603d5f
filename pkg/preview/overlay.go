package preview

import (
	"math"
	"strconv"

	"github.com/teslashibe/go-camview/pkg/geometry"
)

// Line is a segment in overlay coordinates.
type Line struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Grid is a rule-of-thirds grid for an overlay of Width x Height. X and Y hold
// the inner lines and the far edge, each inset by Offset so a stroke of the
// grid's line width stays inside the overlay.
type Grid struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Offset int    `json:"offset"`
	X      [3]int `json:"x"`
	Y      [3]int `json:"y"`
}

// StrokeWidth converts a dp stroke to pixels.
func StrokeWidth(dp int, density float64) int {
	return dpToPx(dp, density)
}

// ThirdsGrid lays out the grid for the overlay bounds with the given line
// width in pixels. Coordinates are relative to the overlay.
func ThirdsGrid(bounds geometry.Rect, lineWidth int) Grid {
	w, h := bounds.Width(), bounds.Height()
	offset := int(math.Ceil(float64(lineWidth) * 0.5))
	return Grid{
		Width:  w,
		Height: h,
		Offset: offset,
		X:      [3]int{round(float64(w) / 3), round(float64(w) * 2 / 3), w - offset},
		Y:      [3]int{round(float64(h) / 3), round(float64(h) * 2 / 3), h - offset},
	}
}

// Lines returns the four horizontal then four vertical segments of the grid,
// starting with the border lines at Offset.
func (g Grid) Lines() []Line {
	lines := make([]Line, 0, 8)
	for _, y := range []int{g.Offset, g.Y[0], g.Y[1], g.Y[2]} {
		lines = append(lines, Line{X1: g.Offset, Y1: y, X2: g.Width, Y2: y})
	}
	for _, x := range []int{g.Offset, g.X[0], g.X[1], g.X[2]} {
		lines = append(lines, Line{X1: x, Y1: g.Offset, X2: x, Y2: g.Height})
	}
	return lines
}

// Label is a piece of text anchored at its baseline origin.
type Label struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Text string `json:"text"`
}

// FaceLabel places a face's score inside the top-left corner of its bounds.
// ascent is the font ascent (negative in most font metrics); the label is
// inset by |ascent| horizontally and twice that vertically.
func FaceLabel(face geometry.Face, ascent float64) Label {
	dx := round(math.Abs(ascent))
	return Label{
		X:    face.Rect.Left + dx,
		Y:    face.Rect.Top + 2*dx,
		Text: strconv.Itoa(face.Score),
	}
}
