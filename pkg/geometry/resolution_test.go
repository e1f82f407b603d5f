package geometry

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func TestSelectPreviewSize(t *testing.T) {
	tests := []struct {
		name      string
		supported []Resolution
		width     int
		height    int
		want      Resolution
		wantOK    bool
	}{
		{
			// Target aspect 1.667; no candidate within 0.1, so the first fitting size wins.
			name:      "landscape fallback to first fitting",
			supported: []Resolution{{640, 480}, {1280, 720}, {1920, 1080}},
			width:     1000,
			height:    600,
			want:      Resolution{640, 480},
			wantOK:    true,
		},
		{
			name:      "landscape close aspect match",
			supported: []Resolution{{1920, 1080}, {1280, 720}, {640, 480}},
			width:     1300,
			height:    740,
			want:      Resolution{1280, 720},
			wantOK:    true,
		},
		{
			// 1280x720 fits first but 800x480 is within 0.1 of 1.6.
			name:      "aspect match beats earlier fitting size",
			supported: []Resolution{{1920, 1080}, {1280, 720}, {800, 480}},
			width:     1920,
			height:    1200,
			want:      Resolution{800, 480},
			wantOK:    true,
		},
		{
			name:      "equal size is not strictly smaller",
			supported: []Resolution{{1280, 720}},
			width:     1280,
			height:    720,
			wantOK:    false,
		},
		{
			// Portrait falls back against swapped bounds (1280, 720).
			name:      "portrait fallback uses swapped bounds",
			supported: []Resolution{{1920, 1080}, {1280, 720}, {640, 480}, {320, 240}},
			width:     720,
			height:    1280,
			want:      Resolution{640, 480},
			wantOK:    true,
		},
		{
			// Target 1280/720; matching compares raw width<720 and height<1280.
			name:      "portrait aspect match against unswapped bounds",
			supported: []Resolution{{1920, 1080}, {704, 396}, {640, 360}},
			width:     720,
			height:    1280,
			want:      Resolution{704, 396},
			wantOK:    true,
		},
		{
			name:      "nothing fits",
			supported: []Resolution{{640, 480}},
			width:     100,
			height:    100,
			wantOK:    false,
		},
		{
			name:      "empty candidates",
			supported: nil,
			width:     1000,
			height:    600,
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectPreviewSize(tt.supported, tt.width, tt.height)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (got %v)", ok, tt.wantOK, got)
			}
			if ok && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectPreviewSizeErr(t *testing.T) {
	_, err := SelectPreviewSizeErr([]Resolution{{640, 480}}, 100, 100)
	if !errors.Is(err, ErrNoMatchingResolution) {
		t.Errorf("expected ErrNoMatchingResolution, got %v", err)
	}

	_, err = SelectPreviewSizeErr([]Resolution{{640, 480}}, 0, 100)
	if !errors.Is(err, ErrInvalidExtent) {
		t.Errorf("expected ErrInvalidExtent, got %v", err)
	}

	got, err := SelectPreviewSizeErr([]Resolution{{640, 480}}, 1000, 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (Resolution{640, 480}) {
		t.Errorf("got %v", got)
	}
}

func TestSelectPreviewSize_DoesNotMutateAndIsIdempotent(t *testing.T) {
	supported := []Resolution{{1920, 1080}, {1280, 720}, {800, 480}, {640, 480}}
	original := append([]Resolution(nil), supported...)

	first, ok1 := SelectPreviewSize(supported, 1366, 768)
	second, ok2 := SelectPreviewSize(supported, 1366, 768)

	if first != second || ok1 != ok2 {
		t.Errorf("not idempotent: %v/%v vs %v/%v", first, ok1, second, ok2)
	}
	if !reflect.DeepEqual(supported, original) {
		t.Errorf("supported was modified: %v", supported)
	}
}

func TestSelectPreviewSize_StrictlySmallerProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 4000; i++ {
		n := rng.Intn(6) + 1
		supported := make([]Resolution, n)
		for j := range supported {
			supported[j] = Resolution{Width: rng.Intn(2000) + 1, Height: rng.Intn(2000) + 1}
		}
		short := rng.Intn(1500) + 1
		long := short + rng.Intn(1500)
		w, h := long, short
		if i%2 == 1 {
			w, h = short, long
		}

		got, ok := SelectPreviewSize(supported, w, h)
		if !ok {
			continue
		}
		inside := got.Width < w && got.Height < h
		if w >= h && !inside {
			t.Fatalf("case %d: %v not strictly inside %dx%d (candidates %v)", i, got, w, h, supported)
		}
		// Portrait surfaces may fall back to the swapped bounds.
		if w < h && !inside && !(got.Width < h && got.Height < w) {
			t.Fatalf("case %d: %v fits neither %dx%d nor %dx%d (candidates %v)", i, got, w, h, h, w, supported)
		}
	}
}

func TestSelectPreviewSize_PortraitFallbackUsesSwappedBounds(t *testing.T) {
	supported := []Resolution{{Width: 800, Height: 480}}

	got, ok := SelectPreviewSize(supported, 600, 1000)
	if !ok || got != (Resolution{Width: 800, Height: 480}) {
		t.Fatalf("got %v, %v; want 800x480", got, ok)
	}
	if got.Width < 600 && got.Height < 1000 {
		t.Errorf("%v is strictly inside the surface; the fallback case is not exercised", got)
	}

	// The same sizes on the landscape surface match inside the bounds.
	if got, ok := SelectPreviewSize(supported, 1000, 600); !ok || got.Width >= 1000 || got.Height >= 600 {
		t.Errorf("landscape: got %v, %v", got, ok)
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in      string
		want    Resolution
		wantErr bool
	}{
		{"1920x1080", Resolution{1920, 1080}, false},
		{" 640 X 480 ", Resolution{640, 480}, false},
		{"640", Resolution{}, true},
		{"0x480", Resolution{}, true},
		{"axb", Resolution{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseResolution(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
