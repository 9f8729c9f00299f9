package imageprocessing

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// OrientationCommand rotates the image by a quarter turn when its
// orientation differs from the configured one, e.g. for frames mounted
// in portrait mode
type OrientationCommand struct {
	name        string
	orientation string
	clockwise   bool
	decode      decodeOptions
}

// NewOrientationCommand creates a new orientation command from configuration parameters
func NewOrientationCommand(params map[string]any) (Command, error) {
	orientation := getStringParam(params, "orientation", "portrait")

	// Validate orientation value
	validOrientations := map[string]bool{
		"portrait":  true,
		"landscape": true,
	}

	if !validOrientations[orientation] {
		return nil, fmt.Errorf("invalid orientation: %s (must be 'portrait' or 'landscape')", orientation)
	}

	decode, err := newDecodeOptions(params)
	if err != nil {
		return nil, err
	}

	return &OrientationCommand{
		name:        "OrientationCommand",
		orientation: orientation,
		clockwise:   getBoolParam(params, "clockwise", false),
		decode:      decode,
	}, nil
}

// Name returns the command name
func (c *OrientationCommand) Name() string {
	return c.name
}

// Execute rotates the image if needed, square images are kept as they are
func (c *OrientationCommand) Execute(imageData []byte) ([]byte, error) {
	img, _, err := decodeImage(imageData, c.decode)
	if err != nil {
		return nil, err
	}

	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	isPortrait := height > width
	isLandscape := width > height
	if (c.orientation == "portrait" && !isLandscape) || (c.orientation == "landscape" && !isPortrait) {
		return encodePNG(img)
	}

	var rotated image.Image
	if c.clockwise {
		rotated = imaging.Rotate270(img)
	} else {
		rotated = imaging.Rotate90(img)
	}

	out, err := encodePNG(rotated)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rotated image: %w", err)
	}
	return out, nil
}

func init() {
	mustRegister("OrientationCommand", NewOrientationCommand)
}
