package imageprocessing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"regexp"
	"strconv"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const svgFormat = "svg"

// ErrImageTooLarge is returned for images above the configured pixel budget
var ErrImageTooLarge = errors.New("image exceeds pixel limit")

// decodeOptions are the decoder settings every command takes from its params:
// svgFallbackWidth, svgFallbackHeight and maxPixels. Zero disables each.
type decodeOptions struct {
	svgFallbackWidth  int
	svgFallbackHeight int
	maxPixels         int
}

func newDecodeOptions(params map[string]any) (decodeOptions, error) {
	opts := decodeOptions{
		svgFallbackWidth:  getIntParam(params, "svgFallbackWidth", 0),
		svgFallbackHeight: getIntParam(params, "svgFallbackHeight", 0),
		maxPixels:         getIntParam(params, "maxPixels", 0),
	}
	if opts.svgFallbackWidth < 0 || opts.svgFallbackHeight < 0 {
		return decodeOptions{}, fmt.Errorf("SVG fallback size must not be negative, got %dx%d", opts.svgFallbackWidth, opts.svgFallbackHeight)
	}
	if opts.maxPixels < 0 {
		return decodeOptions{}, fmt.Errorf("maxPixels must not be negative, got %d", opts.maxPixels)
	}
	return opts, nil
}

// withFallback fills an unset SVG fallback size, e.g. with the target box of a resize
func (o decodeOptions) withFallback(width, height int) decodeOptions {
	if o.svgFallbackWidth == 0 || o.svgFallbackHeight == 0 {
		o.svgFallbackWidth, o.svgFallbackHeight = width, height
	}
	return o
}

func (o decodeOptions) checkPixels(width, height int) error {
	if o.maxPixels > 0 && int64(width)*int64(height) > int64(o.maxPixels) {
		return fmt.Errorf("%w: %dx%d is above %d pixels", ErrImageTooLarge, width, height, o.maxPixels)
	}
	return nil
}

var (
	svgStartTag = regexp.MustCompile(`(?is)<svg\b[^>]*>`)
	svgWidth    = regexp.MustCompile(`(?i)\swidth\s*=\s*["']\s*([0-9]+)`)
	svgHeight   = regexp.MustCompile(`(?i)\sheight\s*=\s*["']\s*([0-9]+)`)
)

// decodeImage decodes raster data through the registered image decoders.
// SVG input is rasterized at its explicit size, or at the fallback size when
// the root element does not declare one. The header is checked against the
// pixel budget before any pixel is allocated.
func decodeImage(data []byte, opts decodeOptions) (image.Image, string, error) {
	if isSVGData(data) {
		width, height, ok := svgExplicitSize(data)
		if !ok {
			width, height = opts.svgFallbackWidth, opts.svgFallbackHeight
		}
		if err := opts.checkPixels(width, height); err != nil {
			return nil, svgFormat, err
		}
		img, err := rasterizeSVG(data, width, height)
		if err != nil {
			return nil, svgFormat, err
		}
		return img, svgFormat, nil
	}

	if opts.maxPixels > 0 {
		config, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode image header: %w", err)
		}
		if err := opts.checkPixels(config.Width, config.Height); err != nil {
			return nil, "", err
		}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// isSVGData looks for an <svg> start tag in the first 4KB of data
func isSVGData(data []byte) bool {
	n := len(data)
	if n == 0 {
		return false
	}
	if n > 4096 {
		n = 4096
	}
	return svgStartTag.Match(data[:n])
}

// svgExplicitSize reads pixel width and height attributes of the root element.
// viewBox is not treated as a pixel size.
func svgExplicitSize(data []byte) (int, int, bool) {
	n := len(data)
	if n > 8192 {
		n = 8192
	}
	tag := svgStartTag.Find(data[:n])
	if tag == nil {
		return 0, 0, false
	}
	w, wOk := firstIntGroup(svgWidth, tag)
	h, hOk := firstIntGroup(svgHeight, tag)
	if !wOk || !hOk || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func firstIntGroup(re *regexp.Regexp, data []byte) (int, bool) {
	m := re.FindSubmatch(data)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, false
	}
	return v, true
}

func rasterizeSVG(data []byte, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("SVG has no explicit size and no fallback size is configured")
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, dst, dst.Bounds())
	dasher := rasterx.NewDasher(width, height, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}

// encodePNG is the lossless intermediate format passed between commands
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	b := img.Bounds()
	buf.Grow(b.Dx() * b.Dy())
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
