package sensor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teslashibe/go-camview/pkg/geometry"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	back, err := c.First(false)
	if err != nil {
		t.Fatalf("First(back): %v", err)
	}
	if back.ID != "0" || back.Orientation != 90 || back.Front() {
		t.Errorf("back = %+v", back)
	}
	if back.PreviewSizes[0] != (geometry.Resolution{Width: 1920, Height: 1080}) {
		t.Errorf("first preview size = %v", back.PreviewSizes[0])
	}
	if back.Capabilities.MinExposure != -4 || !back.Capabilities.FaceDetection {
		t.Errorf("caps = %+v", back.Capabilities)
	}

	front, err := c.First(true)
	if err != nil {
		t.Fatalf("First(front): %v", err)
	}
	if front.Orientation != 270 || front.Capabilities.ZoomSupported() {
		t.Errorf("front = %+v", front)
	}
	if len(front.Capabilities.FlashModes) != 0 {
		t.Errorf("front should have no flash, got %v", front.Capabilities.FlashModes)
	}
	if !c.HasFront() {
		t.Error("HasFront = false")
	}
}

func TestCatalog_Switch(t *testing.T) {
	c := DefaultCatalog()

	got, err := c.Switch("0")
	if err != nil || got.ID != "1" {
		t.Errorf("Switch(0) = %v, %v", got.ID, err)
	}
	got, err = c.Switch("1")
	if err != nil || got.ID != "0" {
		t.Errorf("Switch(1) = %v, %v", got.ID, err)
	}

	if _, err := c.Switch("9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	backOnly, _ := NewCatalog(Descriptor{ID: "a", Facing: FacingBack})
	got, err = backOnly.Switch("a")
	if err != nil || got.ID != "a" {
		t.Errorf("single sensor should stay put, got %v, %v", got.ID, err)
	}
	if backOnly.HasFront() {
		t.Error("HasFront = true")
	}
}

func TestParseCatalog(t *testing.T) {
	data := `
[general]
ignored = yes

[sensor.wide]
facing        = back
orientation   = 0
preview_sizes = 640X480 , 320x240
flash_modes   = off,torch

[sensor.selfie]
facing      = FRONT
orientation = 270
`
	c, err := ParseCatalog([]byte(data))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if ids := c.IDs(); strings.Join(ids, ",") != "selfie,wide" {
		t.Errorf("IDs = %v", ids)
	}

	wide, _ := c.Find("wide")
	if wide.Name != "wide" {
		t.Errorf("name should default to id, got %q", wide.Name)
	}
	if len(wide.PreviewSizes) != 2 || wide.PreviewSizes[1] != (geometry.Resolution{Width: 320, Height: 240}) {
		t.Errorf("preview sizes = %v", wide.PreviewSizes)
	}
	if strings.Join(wide.Capabilities.FlashModes, ",") != "off,torch" {
		t.Errorf("flash modes = %v", wide.Capabilities.FlashModes)
	}

	d, err := c.Default()
	if err != nil || d.ID != "wide" {
		t.Errorf("Default = %v, %v", d.ID, err)
	}
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no sensors", "[general]\nfoo = bar\n"},
		{"bad facing", "[sensor.a]\nfacing = up\n"},
		{"bad orientation", "[sensor.a]\norientation = 360\n"},
		{"bad size", "[sensor.a]\npreview_sizes = 640x0\n"},
		{"exposure range", "[sensor.a]\nmin_exposure = 2\nmax_exposure = -2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensors.ini")
	if err := os.WriteFile(path, []byte("[sensor.x]\nfacing = front\norientation = 270\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if _, err := c.First(false); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected no back sensor, got %v", err)
	}

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.ini")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewCatalog_Duplicate(t *testing.T) {
	if _, err := NewCatalog(Descriptor{ID: "a"}, Descriptor{ID: "a"}); err == nil {
		t.Error("expected duplicate id error")
	}
}
