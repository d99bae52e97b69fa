package colour

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"slices"
)

// KMeansExtractor implements colour extraction using k-means clustering.
// Unlike DominantExtractor it groups near-identical colours, which suits photographic input.
type KMeansExtractor struct {
	maxIterations int
	convergence   float64
	maxSamples    int
	rng           *rand.Rand
}

// NewKMeansExtractor creates a new KMeansExtractor seeded with seed.
// The same seed and image always produce the same palette.
func NewKMeansExtractor(seed uint64) *KMeansExtractor {
	return &KMeansExtractor{
		maxIterations: 20,
		convergence:   2.0,
		maxSamples:    5000,
		rng:           rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), // #nosec G404 -- deterministic clustering, not cryptography
	}
}

// Extract extracts colours from an image using k-means clustering.
// Colours are returned largest cluster first.
func (e *KMeansExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	pix, width, height := PixelBuffer(img)
	return e.ExtractPixels(pix, width, height, count)
}

// ExtractPixels clusters an RGBA pixel buffer into at most count colours.
func (e *KMeansExtractor) ExtractPixels(pix []uint8, width, height, count int) (*Palette, error) {
	if count < 1 {
		return nil, fmt.Errorf("color count must be at least 1, got %d", count)
	}
	if count > 256 {
		return nil, fmt.Errorf("color count too large: %d (maximum: 256)", count)
	}
	if width*height == 0 {
		return nil, ErrEmptyBuffer
	}
	if len(pix) < width*height*bytesPerPixel {
		return nil, ErrShortBuffer
	}

	points := e.samplePoints(pix, width*height)

	// If we want at least as many colours as exist, exact counting is already the answer.
	unique := countRange(pix, 0, width*height)
	if count >= len(unique.counts) {
		colors, err := ExtractDominant(pix, width, height, count)
		if err != nil {
			return nil, err
		}
		return NewPalette(colors), nil
	}

	centroids, weights := e.kmeans(points, count)

	order := make([]int, len(centroids))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return weights[b] - weights[a]
	})

	colors := make([]RGB, 0, len(centroids))
	for _, i := range order {
		if weights[i] == 0 {
			continue
		}
		colors = append(colors, fromChannels(centroids[i]))
	}
	return NewPalette(colors), nil
}

// samplePoints takes an evenly spaced subset of at most maxSamples pixels.
func (e *KMeansExtractor) samplePoints(pix []uint8, pixels int) [][3]float64 {
	step := max(pixels/e.maxSamples, 1)
	points := make([][3]float64, 0, min(pixels, e.maxSamples))
	for p := 0; p < pixels; p += step {
		o := p * bytesPerPixel
		points = append(points, [3]float64{float64(pix[o]), float64(pix[o+1]), float64(pix[o+2])})
	}
	return points
}

func distance(a, b [3]float64) float64 {
	dr, dg, db := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// kmeans returns k centroids and the number of points assigned to each.
func (e *KMeansExtractor) kmeans(points [][3]float64, k int) ([][3]float64, []int) {
	centroids := e.initialCentroids(points, k)
	assignments := make([]int, len(points))

	for range e.maxIterations {
		changed := 0
		for i, p := range points {
			nearest := nearestCentroid(p, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}

		// Fewer than 1% of points moving counts as converged.
		if float64(changed)/float64(len(points)) < 0.01 {
			break
		}

		next := e.recalculate(points, assignments, k)
		movement := 0.0
		for i := range centroids {
			movement += distance(centroids[i], next[i])
		}
		centroids = next
		if movement/float64(k) < e.convergence {
			break
		}
	}

	weights := make([]int, k)
	for _, a := range assignments {
		weights[a]++
	}
	return centroids, weights
}

// initialCentroids picks starting centroids with k-means++ seeding.
func (e *KMeansExtractor) initialCentroids(points [][3]float64, k int) [][3]float64 {
	centroids := make([][3]float64, 0, k)
	centroids = append(centroids, points[e.rng.IntN(len(points))])

	dist := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := distance(p, centroids[nearestCentroid(p, centroids)])
			dist[i] = d * d
			total += dist[i]
		}

		if total == 0 {
			last := centroids[len(centroids)-1]
			centroids = append(centroids, [3]float64{last[0] + 0.1, last[1] + 0.1, last[2] + 0.1})
			continue
		}

		target := e.rng.Float64() * total
		picked := len(points) - 1
		for i, d := range dist {
			target -= d
			if target <= 0 {
				picked = i
				break
			}
		}
		centroids = append(centroids, points[picked])
	}
	return centroids
}

func nearestCentroid(p [3]float64, centroids [][3]float64) int {
	best, bestDist := 0, math.MaxFloat64
	for i, c := range centroids {
		if d := distance(p, c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// recalculate moves every centroid to the mean of its points. Empty clusters are reseeded.
func (e *KMeansExtractor) recalculate(points [][3]float64, assignments []int, k int) [][3]float64 {
	sums := make([][3]float64, k)
	counts := make([]int, k)
	for i, p := range points {
		c := assignments[i]
		for j := range 3 {
			sums[c][j] += p[j]
		}
		counts[c]++
	}

	centroids := make([][3]float64, k)
	for i := range k {
		if counts[i] == 0 {
			centroids[i] = points[e.rng.IntN(len(points))]
			continue
		}
		for j := range 3 {
			centroids[i][j] = sums[i][j] / float64(counts[i])
		}
	}
	return centroids
}
