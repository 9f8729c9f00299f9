package imageprocessing

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
)

func TestNewResizeCommand_Success(t *testing.T) {
	command, err := NewResizeCommand(map[string]any{"width": 1200, "height": 825})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	resizeCmd, ok := command.(*ResizeCommand)
	if !ok {
		t.Fatal("Expected command to be *ResizeCommand")
	}
	if resizeCmd.params.Width != 1200 || resizeCmd.params.Height != 825 {
		t.Errorf("Expected 1200x825, got %dx%d", resizeCmd.params.Width, resizeCmd.params.Height)
	}
	if resizeCmd.params.Filter != "lanczos" {
		t.Errorf("Expected default filter lanczos, got %s", resizeCmd.params.Filter)
	}
}

func newResizeCommand(t *testing.T, width, height int) Command {
	t.Helper()
	command, err := NewResizeCommand(map[string]any{"width": width, "height": height})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}
	return command
}

func TestNewResizeCommand_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
	}{
		{"Missing width", map[string]any{"height": 825}},
		{"Missing height", map[string]any{"width": 1200}},
		{"Zero width", map[string]any{"width": 0, "height": 825}},
		{"Negative height", map[string]any{"width": 1200, "height": -1}},
		{"Unknown filter", map[string]any{"width": 1200, "height": 825, "filter": "bogus"}},
		{"Negative pixel limit", map[string]any{"width": 1200, "height": 825, "maxPixels": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewResizeCommand(tt.params); err == nil {
				t.Error("Expected error for invalid parameters")
			}
		})
	}
}

func TestResizeCommand_ExactOutputSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"Wider than target", 300, 100},
		{"Taller than target", 50, 400},
		{"Smaller than target", 7, 5},
		{"Same aspect ratio", 240, 165},
	}

	command := newResizeCommand(t, 120, 82)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := command.Execute(encodeTestPNG(t, newGradientImage(tt.width, tt.height)))
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(result))
			if err != nil {
				t.Fatalf("Result is not valid PNG: %v", err)
			}
			if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 82 {
				t.Errorf("Expected 120x82, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
			}
		})
	}
}

func TestResizeCommand_AcceptsJPEG(t *testing.T) {
	command := newResizeCommand(t, 20, 20)
	result, err := command.Execute(encodeTestJPEG(t, newGradientImage(64, 32)))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("Result is not valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 20 {
		t.Errorf("Expected 20x20, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestResizeCommand_RendersSVGIntoTargetBox(t *testing.T) {
	svgData := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><rect width="100" height="100" fill="red"/></svg>`)

	command := newResizeCommand(t, 64, 48)
	result, err := command.Execute(svgData)
	if err != nil {
		t.Fatalf("Execute failed for SVG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("Result is not valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Errorf("Expected 64x48, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestResizeCommand_PixelLimit(t *testing.T) {
	command, err := NewResizeCommand(map[string]any{"width": 10, "height": 10, "maxPixels": 100})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}

	if _, err := command.Execute(encodeTestPNG(t, newGradientImage(10, 10))); err != nil {
		t.Errorf("Expected image at the limit to pass, got %v", err)
	}
	if _, err := command.Execute(encodeTestPNG(t, newGradientImage(11, 10))); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("Expected ErrImageTooLarge, got %v", err)
	}
}

func TestResizeCommand_InvalidImage(t *testing.T) {
	command := newResizeCommand(t, 10, 10)
	if _, err := command.Execute([]byte("not a valid image")); err == nil {
		t.Error("Expected error for invalid image data, got nil")
	}
}
