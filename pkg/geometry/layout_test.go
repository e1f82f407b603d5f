package geometry

import "testing"

func TestMeasurePreview(t *testing.T) {
	tests := []struct {
		name          string
		preview       Resolution
		width, height int
		wantW, wantH  int
	}{
		{"landscape pillarbox", Resolution{640, 480}, 1000, 600, 800, 600},
		{"portrait letterbox", Resolution{640, 480}, 600, 1000, 600, 800},
		{"exact aspect", Resolution{1280, 720}, 1920, 1080, 1920, 1080},
		{"no preview size keeps surface", Resolution{}, 1000, 600, 1000, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := MeasurePreview(tt.preview, tt.width, tt.height)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCenterIn(t *testing.T) {
	got := CenterIn(Rect{0, 0, 1000, 600}, 800, 600)
	if want := (Rect{100, 0, 900, 600}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	got = CenterIn(Rect{0, 0, 600, 1001}, 600, 800)
	if want := (Rect{0, 101, 600, 901}); got != want {
		t.Errorf("odd remainder: got %v, want %v", got, want)
	}
}

func TestRect_Helpers(t *testing.T) {
	r := Rect{Left: 10, Top: 40, Right: -10, Bottom: 20}.Canonical()
	if r != (Rect{-10, 20, 10, 40}) {
		t.Fatalf("Canonical = %v", r)
	}
	if r.Width() != 20 || r.Height() != 20 {
		t.Errorf("size = %dx%d", r.Width(), r.Height())
	}
	if !r.Contains(0, 30) || r.Contains(10, 30) {
		t.Error("Contains should be half-open")
	}
	if c := r.Center(); c.X != 0 || c.Y != 30 {
		t.Errorf("Center = %+v", c)
	}
	if !(Rect{}).Empty() {
		t.Error("zero rect should be empty")
	}
}
