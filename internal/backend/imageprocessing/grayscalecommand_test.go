package imageprocessing

import (
	"bytes"
	"image/png"
	"testing"
)

func TestGrayscaleCommand_Execute(t *testing.T) {
	command, err := NewGrayscaleCommand(map[string]any{})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}

	result, err := command.Execute(encodeTestPNG(t, newGradientImage(16, 8)))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("Result is not valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Fatalf("Expected 16x8, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != g || g != b {
				t.Fatalf("Pixel (%d,%d) is not gray: %d,%d,%d", x, y, r, g, b)
			}
		}
	}
}

func TestGrayscaleCommand_SVGFallback(t *testing.T) {
	noSize := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="10" height="10" fill="red"/></svg>`)

	if _, err := mustGrayscale(t, map[string]any{}).Execute(noSize); err == nil {
		t.Error("Expected error for SVG without size and without fallback")
	}

	result, err := mustGrayscale(t, map[string]any{"svgFallbackWidth": 12, "svgFallbackHeight": 9}).Execute(noSize)
	if err != nil {
		t.Fatalf("Execute failed for SVG with fallback: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("Result is not valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 9 {
		t.Errorf("Expected 12x9, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func mustGrayscale(t *testing.T, params map[string]any) Command {
	t.Helper()
	command, err := NewGrayscaleCommand(params)
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}
	return command
}
