package colour

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"slices"
	"sync"
)

var (
	// ErrEmptyBuffer is returned when an image has zero pixels.
	ErrEmptyBuffer = errors.New("empty pixel buffer")

	// ErrShortBuffer is returned when a pixel buffer holds fewer than width*height*4 samples.
	ErrShortBuffer = errors.New("pixel buffer shorter than width*height*4")
)

// bytesPerPixel is the number of samples per pixel in an RGBA buffer.
const bytesPerPixel = 4

// parallelThreshold is the pixel count above which counting is split across goroutines.
const parallelThreshold = 1 << 16

// colourCount is a distinct colour, how often it occurs and the pixel index where it was first seen.
type colourCount struct {
	rgb   RGB
	count int
	first int
}

// histogram is a frequency table that remembers the order colours were first encountered.
type histogram struct {
	index  map[RGB]int
	counts []colourCount
}

func newHistogram() *histogram {
	return &histogram{index: make(map[RGB]int)}
}

func (h *histogram) add(rgb RGB, pixel, n int) {
	if i, ok := h.index[rgb]; ok {
		h.counts[i].count += n
		return
	}
	h.index[rgb] = len(h.counts)
	h.counts = append(h.counts, colourCount{rgb: rgb, count: n, first: pixel})
}

// merge folds other into h. Chunks must be merged in scan order to keep first-seen order.
func (h *histogram) merge(other *histogram) {
	for _, c := range other.counts {
		h.add(c.rgb, c.first, c.count)
	}
}

// countRange builds a histogram of the pixels in [start, end).
func countRange(pix []uint8, start, end int) *histogram {
	h := newHistogram()
	for p := start; p < end; p++ {
		o := p * bytesPerPixel
		h.add(RGB{R: pix[o], G: pix[o+1], B: pix[o+2]}, p, 1)
	}
	return h
}

// countPixels counts exact colours, splitting large buffers into per-goroutine chunks.
func countPixels(pix []uint8, pixels int) *histogram {
	workers := runtime.GOMAXPROCS(0)
	if pixels < parallelThreshold || workers < 2 {
		return countRange(pix, 0, pixels)
	}

	chunk := (pixels + workers - 1) / workers
	parts := make([]*histogram, workers)

	var wg sync.WaitGroup
	for w := range workers {
		start := w * chunk
		end := min(start+chunk, pixels)
		if start >= end {
			parts[w] = newHistogram()
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			parts[w] = countRange(pix, start, end)
		}()
	}
	wg.Wait()

	total := parts[0]
	for _, part := range parts[1:] {
		total.merge(part)
	}
	return total
}

// ExtractDominant returns up to topN of the most frequent exact colours in an RGBA pixel buffer.
// Alpha is ignored. Colours with equal counts keep the order in which they were first encountered.
func ExtractDominant(pix []uint8, width, height, topN int) ([]RGB, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	pixels := width * height
	if pixels == 0 {
		return nil, ErrEmptyBuffer
	}
	if len(pix) < pixels*bytesPerPixel {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrShortBuffer, len(pix), pixels*bytesPerPixel)
	}
	if topN < 1 {
		return nil, fmt.Errorf("color count must be at least 1, got %d", topN)
	}

	counts := countPixels(pix, pixels).counts
	slices.SortStableFunc(counts, func(a, b colourCount) int {
		return b.count - a.count
	})

	n := min(topN, len(counts))
	out := make([]RGB, n)
	for i := range n {
		out[i] = counts[i].rgb
	}
	return out, nil
}

// DominantExtractor implements Extractor using exact-colour frequency counting.
type DominantExtractor struct{}

// NewDominantExtractor creates a new DominantExtractor.
func NewDominantExtractor() *DominantExtractor {
	return &DominantExtractor{}
}

// Extract returns the count most frequent colours in img.
func (e *DominantExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	pix, width, height := PixelBuffer(img)
	colors, err := ExtractDominant(pix, width, height, count)
	if err != nil {
		return nil, err
	}
	return NewPalette(colors), nil
}
