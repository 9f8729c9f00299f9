package imageprocessing

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

// newGradientImage returns an opaque image with distinct pixel values per position
func newGradientImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x * 255) / max(width-1, 1)),
				G: uint8((y * 255) / max(height-1, 1)),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func encodeTestPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func encodeTestJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode test JPEG: %v", err)
	}
	return buf.Bytes()
}

func decodeTestBMP(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("result is not a valid BMP: %v", err)
	}
	return img
}

// bmpBitsPerPixel reads biBitCount from the BITMAPINFOHEADER
func bmpBitsPerPixel(t *testing.T, data []byte) int {
	t.Helper()
	if len(data) < 30 || data[0] != 'B' || data[1] != 'M' {
		t.Fatalf("data does not start with a BMP header")
	}
	return int(data[28]) | int(data[29])<<8
}
