package imageprocessing

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"golang.org/x/image/bmp"
)

// MimeTypeBMP is the content type of BitmapConverterCommand output
const MimeTypeBMP = "image/bmp"

// BitmapConverterCommand normalizes any supported input to an uncompressed
// 24-bit BMP. Transparent pixels are composited onto white.
type BitmapConverterCommand struct {
	name   string
	decode decodeOptions
}

// NewBitmapConverterCommand creates a new bitmap converter command
func NewBitmapConverterCommand(params map[string]any) (Command, error) {
	decode, err := newDecodeOptions(params)
	if err != nil {
		return nil, err
	}
	return &BitmapConverterCommand{
		name:   "BitmapConverterCommand",
		decode: decode,
	}, nil
}

// Name returns the command name
func (c *BitmapConverterCommand) Name() string {
	return c.name
}

// Execute decodes the image, converts it to opaque RGB and encodes it as BMP
func (c *BitmapConverterCommand) Execute(imageData []byte) ([]byte, error) {
	img, format, err := decodeImage(imageData, c.decode)
	if err != nil {
		return nil, err
	}

	rgb := toOpaqueRGBA(img)

	var buf bytes.Buffer
	b := rgb.Bounds()
	buf.Grow(54 + ((3*b.Dx()+3)&^3)*b.Dy())
	if err := bmp.Encode(&buf, rgb); err != nil {
		slog.Error("BitmapConverterCommand: failed to encode BMP", "error", err)
		return nil, fmt.Errorf("failed to encode image to BMP: %w", err)
	}

	slog.Debug("BitmapConverterCommand: conversion complete",
		"input_format", format,
		"width", b.Dx(),
		"height", b.Dy(),
		"output_size_bytes", buf.Len())
	return buf.Bytes(), nil
}

// toOpaqueRGBA copies src into a zero-origin RGBA whose alpha is 0xff everywhere,
// which makes the BMP encoder write 24 bits per pixel.
func toOpaqueRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	parallelFor(b.Dy(), func(y int) {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// premultiplied over white: c + (1 - a)
			inv := 0xffff - a
			dst.SetRGBA(x, y, color.RGBA{
				R: uint8((r + inv) >> 8),
				G: uint8((g + inv) >> 8),
				B: uint8((bl + inv) >> 8),
				A: 0xff,
			})
		}
	})
	return dst
}

func init() {
	mustRegister("BitmapConverterCommand", NewBitmapConverterCommand)
}
