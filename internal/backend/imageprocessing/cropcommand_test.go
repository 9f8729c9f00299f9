package imageprocessing

import (
	"bytes"
	"image/png"
	"testing"
)

func TestNewCropCommand_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
	}{
		{"Missing height", map[string]any{"width": 100}},
		{"Missing width", map[string]any{"height": 100}},
		{"Zero height", map[string]any{"width": 100, "height": 0}},
		{"Negative width", map[string]any{"width": -5, "height": 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCropCommand(tt.params); err == nil {
				t.Error("Expected error for invalid parameters")
			}
		})
	}
}

func TestAspectCropSize(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH int
		expectedW, expectedH   int
	}{
		{"Wider source", 2400, 825, 1200, 825, 1200, 825},
		{"Taller source", 1200, 2000, 1200, 825, 1200, 825},
		{"Same ratio", 2400, 1650, 1200, 825, 2400, 1650},
		{"Square into landscape", 100, 100, 2, 1, 100, 50},
		{"Never zero", 1, 100, 100, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := aspectCropSize(tt.srcW, tt.srcH, tt.dstW, tt.dstH)
			if w != tt.expectedW || h != tt.expectedH {
				t.Errorf("Expected %dx%d, got %dx%d", tt.expectedW, tt.expectedH, w, h)
			}
		})
	}
}

func TestCropCommand_CropsCenter(t *testing.T) {
	source := newGradientImage(40, 10)
	command, err := NewCropCommand(map[string]any{"width": 1, "height": 1})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}

	result, err := command.Execute(encodeTestPNG(t, source))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("Result is not valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 10 {
		t.Fatalf("Expected 10x10, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// left edge of the result is column 15 of the source
	r, _, _, _ := img.At(0, 0).RGBA()
	if want := source.RGBAAt(15, 0).R; uint8(r>>8) != want {
		t.Errorf("Expected red %d at the left edge, got %d", want, r>>8)
	}
}
