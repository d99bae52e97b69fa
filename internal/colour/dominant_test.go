package colour

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// buffer builds an RGBA pixel buffer from a list of colours, one pixel each.
func buffer(colors ...RGB) []uint8 {
	pix := make([]uint8, 0, len(colors)*4)
	for _, c := range colors {
		pix = append(pix, c.R, c.G, c.B, 255)
	}
	return pix
}

var (
	red   = RGB{R: 255}
	green = RGB{G: 255}
	blue  = RGB{B: 255}
)

func TestExtractDominant(t *testing.T) {
	tests := []struct {
		name   string
		pixels []RGB
		width  int
		height int
		topN   int
		want   []RGB
	}{
		{
			name:   "single colour",
			pixels: []RGB{red, red, red, red},
			width:  2, height: 2, topN: 5,
			want: []RGB{red},
		},
		{
			name:   "ordered by frequency",
			pixels: []RGB{blue, green, green, green, red, red},
			width:  3, height: 2, topN: 3,
			want: []RGB{green, red, blue},
		},
		{
			name:   "ties keep first encounter order",
			pixels: []RGB{red, blue, blue, red, green},
			width:  5, height: 1, topN: 3,
			want: []RGB{red, blue, green},
		},
		{
			name:   "truncated to topN",
			pixels: []RGB{red, red, green, blue},
			width:  2, height: 2, topN: 1,
			want: []RGB{red},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractDominant(buffer(tt.pixels...), tt.width, tt.height, tt.topN)
			if err != nil {
				t.Fatalf("ExtractDominant() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractDominant() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractDominantIgnoresAlpha(t *testing.T) {
	pix := []uint8{10, 20, 30, 0, 10, 20, 30, 255, 1, 1, 1, 128}
	got, err := ExtractDominant(pix, 3, 1, 2)
	if err != nil {
		t.Fatalf("ExtractDominant() error = %v", err)
	}
	want := []RGB{{R: 10, G: 20, B: 30}, {R: 1, G: 1, B: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractDominant() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractDominantErrors(t *testing.T) {
	if _, err := ExtractDominant(nil, 0, 10, 5); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("zero width: error = %v, want ErrEmptyBuffer", err)
	}
	if _, err := ExtractDominant([]uint8{}, 10, 0, 5); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("zero height: error = %v, want ErrEmptyBuffer", err)
	}
	if _, err := ExtractDominant(buffer(red), 2, 2, 5); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("short buffer: error = %v, want ErrShortBuffer", err)
	}
	if _, err := ExtractDominant(buffer(red), 1, 1, 0); err == nil {
		t.Error("topN 0: expected error")
	}
}

// TestExtractDominantParallel covers buffers large enough to be counted in chunks.
func TestExtractDominantParallel(t *testing.T) {
	const width, height = 400, 300
	pixels := make([]RGB, width*height)
	for i := range pixels {
		switch {
		case i == 0:
			pixels[i] = red
		case i < width*height/2:
			pixels[i] = green
		default:
			pixels[i] = blue
		}
	}
	pixels[len(pixels)-1] = green
	pixels[len(pixels)-2] = red

	// green: 59999 + 1 = 60000, blue: 60000 - 2 = 59998, red: 2.
	got, err := ExtractDominant(buffer(pixels...), width, height, 10)
	if err != nil {
		t.Fatalf("ExtractDominant() error = %v", err)
	}
	if diff := cmp.Diff([]RGB{green, blue, red}, got); diff != "" {
		t.Errorf("ExtractDominant() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractDominantParallelTie(t *testing.T) {
	const width, height = 512, 256
	pixels := make([]RGB, width*height)
	for i := range pixels {
		if i%2 == 0 {
			pixels[i] = blue
		} else {
			pixels[i] = red
		}
	}
	got, err := ExtractDominant(buffer(pixels...), width, height, 2)
	if err != nil {
		t.Fatalf("ExtractDominant() error = %v", err)
	}
	if diff := cmp.Diff([]RGB{blue, red}, got); diff != "" {
		t.Errorf("tie-break mismatch (-want +got):\n%s", diff)
	}
}

func TestDominantExtractorExtract(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			c := color.RGBA{R: 255, A: 255}
			if x == 3 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}

	palette, err := NewDominantExtractor().Extract(img, 5)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if diff := cmp.Diff([]string{"#ff0000", "#0000ff"}, palette.ToHex()); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestPixelBufferSubImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	sub := img.SubImage(image.Rect(2, 2, 4, 4))

	pix, w, h := PixelBuffer(sub)
	if w != 2 || h != 2 || len(pix) != 16 {
		t.Fatalf("PixelBuffer() = %d bytes, %dx%d", len(pix), w, h)
	}
	if pix[0] != 2 || pix[1] != 2 {
		t.Errorf("first pixel = %v, want the sub-image origin", pix[:4])
	}
}

func TestNewExtractor(t *testing.T) {
	for _, alg := range ValidAlgorithms() {
		cfg := DefaultExtractorConfig()
		cfg.Algorithm = alg
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate(%s) error = %v", alg, err)
		}
		if _, err := NewExtractor(cfg); err != nil {
			t.Errorf("NewExtractor(%s) error = %v", alg, err)
		}
	}

	cfg := DefaultExtractorConfig()
	cfg.Algorithm = "mediancut"
	if _, err := NewExtractor(cfg); err == nil {
		t.Error("NewExtractor(mediancut) expected error")
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate(mediancut) expected error")
	}

	cfg = DefaultExtractorConfig()
	cfg.ColorCount = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate(count 0) expected error")
	}
}

func TestKMeansExtractor(t *testing.T) {
	const width, height = 20, 10
	pixels := make([]RGB, 0, width*height)
	for i := range width * height {
		// Two tight clusters of near-identical colours.
		if i < 150 {
			pixels = append(pixels, RGB{R: 250 + uint8(i%3), G: 10, B: 10})
		} else {
			pixels = append(pixels, RGB{R: 10, G: 10, B: 250 + uint8(i%3)})
		}
	}

	palette, err := NewKMeansExtractor(42).ExtractPixels(buffer(pixels...), width, height, 2)
	if err != nil {
		t.Fatalf("ExtractPixels() error = %v", err)
	}
	if palette.Len() != 2 {
		t.Fatalf("ExtractPixels() returned %d colours, want 2", palette.Len())
	}
	// Largest cluster first.
	if palette.Colors[0].R < 200 || palette.Colors[1].B < 200 {
		t.Errorf("ExtractPixels() = %v, want red cluster then blue cluster", palette.ToHex())
	}

	again, _ := NewKMeansExtractor(42).ExtractPixels(buffer(pixels...), width, height, 2)
	if diff := cmp.Diff(palette.Colors, again.Colors); diff != "" {
		t.Errorf("same seed produced different palettes:\n%s", diff)
	}
}

func TestKMeansExtractorFewColours(t *testing.T) {
	palette, err := NewKMeansExtractor(1).ExtractPixels(buffer(red, red, blue), 3, 1, 8)
	if err != nil {
		t.Fatalf("ExtractPixels() error = %v", err)
	}
	if diff := cmp.Diff([]RGB{red, blue}, palette.Colors); diff != "" {
		t.Errorf("ExtractPixels() mismatch (-want +got):\n%s", diff)
	}
	if _, err := NewKMeansExtractor(1).ExtractPixels(nil, 0, 0, 2); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("empty buffer error = %v, want ErrEmptyBuffer", err)
	}
}
