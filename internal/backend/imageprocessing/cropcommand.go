package imageprocessing

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
)

// CropParams represents typed parameters for crop command
type CropParams struct {
	Height int
	Width  int
}

// NewCropParamsFromMap creates CropParams from a generic map
func NewCropParamsFromMap(params map[string]any) (*CropParams, error) {
	// Validate required parameters exist
	if err := validateRequiredParams(params, []string{"height", "width"}); err != nil {
		return nil, err
	}

	height := getIntParam(params, "height", 0)
	width := getIntParam(params, "width", 0)

	// Validate dimensions are positive
	if height <= 0 {
		return nil, fmt.Errorf("height must be positive, got %d", height)
	}
	if width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %d", width)
	}

	return &CropParams{
		Height: height,
		Width:  width,
	}, nil
}

// CropCommand cuts the center of the image to the aspect ratio of
// width x height, keeping as many source pixels as possible. Followed by a
// resize to the same box this fills the display without distortion.
type CropCommand struct {
	name   string
	params *CropParams
	decode decodeOptions
}

// NewCropCommand creates a new crop command from configuration parameters
func NewCropCommand(params map[string]any) (Command, error) {
	typedParams, err := NewCropParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	decode, err := newDecodeOptions(params)
	if err != nil {
		return nil, err
	}

	return &CropCommand{
		name:   "CropCommand",
		params: typedParams,
		decode: decode.withFallback(typedParams.Width, typedParams.Height),
	}, nil
}

// Name returns the command name
func (c *CropCommand) Name() string {
	return c.name
}

// Execute crops the image to the configured aspect ratio
func (c *CropCommand) Execute(imageData []byte) ([]byte, error) {
	slog.Debug("CropCommand: decoding image",
		"input_size_bytes", len(imageData))

	img, _, err := decodeImage(imageData, c.decode)
	if err != nil {
		return nil, err
	}

	cropWidth, cropHeight := aspectCropSize(img.Bounds().Dx(), img.Bounds().Dy(), c.params.Width, c.params.Height)
	slog.Debug("CropCommand: cropping",
		"source_width", img.Bounds().Dx(),
		"source_height", img.Bounds().Dy(),
		"crop_width", cropWidth,
		"crop_height", cropHeight)

	var cropped image.Image = img
	if cropWidth != img.Bounds().Dx() || cropHeight != img.Bounds().Dy() {
		cropped = imaging.CropCenter(img, cropWidth, cropHeight)
	}

	out, err := encodePNG(cropped)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}
	return out, nil
}

// aspectCropSize returns the largest size with the target aspect ratio that
// fits into the source
func aspectCropSize(srcWidth, srcHeight, targetWidth, targetHeight int) (int, int) {
	// compare srcWidth/srcHeight with targetWidth/targetHeight without floats
	if srcWidth*targetHeight > targetWidth*srcHeight {
		width := max(srcHeight*targetWidth/targetHeight, 1)
		return width, srcHeight
	}
	height := max(srcWidth*targetHeight/targetWidth, 1)
	return srcWidth, height
}

func init() {
	mustRegister("CropCommand", NewCropCommand)
}
