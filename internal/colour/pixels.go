package colour

import (
	"image"

	"golang.org/x/image/draw"
)

// PixelBuffer flattens img into a row-major, non-premultiplied R,G,B,A sample buffer
// of exactly width*height*4 bytes.
func PixelBuffer(img image.Image) (pix []uint8, width, height int) {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && n.Stride == b.Dx()*bytesPerPixel {
		return n.Pix[:b.Dx()*b.Dy()*bytesPerPixel], b.Dx(), b.Dy()
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst.Pix, b.Dx(), b.Dy()
}
