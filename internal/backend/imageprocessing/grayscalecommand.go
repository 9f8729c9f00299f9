package imageprocessing

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// GrayscaleCommand desaturates the image, useful for monochrome e-paper panels
type GrayscaleCommand struct {
	name   string
	decode decodeOptions
}

// NewGrayscaleCommand creates a new grayscale command
func NewGrayscaleCommand(params map[string]any) (Command, error) {
	decode, err := newDecodeOptions(params)
	if err != nil {
		return nil, err
	}
	return &GrayscaleCommand{
		name:   "GrayscaleCommand",
		decode: decode,
	}, nil
}

// Name returns the command name
func (c *GrayscaleCommand) Name() string {
	return c.name
}

// Execute returns a grayscale PNG of the input
func (c *GrayscaleCommand) Execute(imageData []byte) ([]byte, error) {
	img, _, err := decodeImage(imageData, c.decode)
	if err != nil {
		return nil, err
	}
	out, err := encodePNG(imaging.Grayscale(img))
	if err != nil {
		return nil, fmt.Errorf("failed to encode grayscale image: %w", err)
	}
	return out, nil
}

func init() {
	mustRegister("GrayscaleCommand", NewGrayscaleCommand)
}
