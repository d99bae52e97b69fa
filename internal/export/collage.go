package export

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/swatch/internal/colour"
)

// Default collage dimensions, sized for social-media link previews.
const (
	DefaultCollageWidth  = 1200
	DefaultCollageHeight = 630
)

// Collage renders colors as equal-width vertical bands filling a width x height image.
// The last band absorbs any rounding remainder.
func Collage(colors []colour.RGB, width, height int) (*image.RGBA, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("collage needs at least one colour")
	}
	if width < len(colors) || height < 1 {
		return nil, fmt.Errorf("collage size %dx%d too small for %d colours", width, height, len(colors))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	band := width / len(colors)
	for i, c := range colors {
		x0 := i * band
		x1 := x0 + band
		if i == len(colors)-1 {
			x1 = width
		}
		draw.Draw(img, image.Rect(x0, 0, x1, height), image.NewUniform(c), image.Point{}, draw.Src)
	}
	return img, nil
}

// WriteCollagePNG renders a collage and encodes it as PNG to w.
func WriteCollagePNG(w io.Writer, colors []colour.RGB, width, height int) error {
	img, err := Collage(colors, width, height)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode collage: %w", err)
	}
	return nil
}
