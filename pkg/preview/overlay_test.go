package preview

import (
	"testing"

	"github.com/teslashibe/go-camview/pkg/geometry"
)

func TestThirdsGrid(t *testing.T) {
	g := ThirdsGrid(geometry.Rect{Left: 0, Top: 17, Right: 1000, Bottom: 684}, 3)

	if g.Offset != 2 {
		t.Errorf("offset = %d, want 2", g.Offset)
	}
	if g.X != [3]int{333, 667, 998} {
		t.Errorf("X = %v", g.X)
	}
	if g.Y != [3]int{222, 445, 665} {
		t.Errorf("Y = %v", g.Y)
	}

	lines := g.Lines()
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8", len(lines))
	}
	if lines[0] != (Line{X1: 2, Y1: 2, X2: 1000, Y2: 2}) {
		t.Errorf("top border = %+v", lines[0])
	}
	if lines[7] != (Line{X1: 998, Y1: 2, X2: 998, Y2: 667}) {
		t.Errorf("right border = %+v", lines[7])
	}
}

func TestStrokeWidth(t *testing.T) {
	if got := StrokeWidth(1, 2.625); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
	if got := StrokeWidth(1, 1); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

func TestFaceLabel(t *testing.T) {
	face := geometry.Face{Rect: geometry.Rect{Left: 10, Top: 20, Right: 110, Bottom: 120}, Score: 87}
	got := FaceLabel(face, -18.5)
	if got != (Label{X: 29, Y: 58, Text: "87"}) {
		t.Errorf("got %+v", got)
	}
}
