package sampler

import (
	"math"

	"github.com/chromalens/api/models"
)

// headerSkip is how many leading bytes are ignored by the heuristic when the
// input is large enough, so container headers don't masquerade as pixels.
const headerSkip = 64

// Heuristic reads data as packed RGB triples, striding to honour maxSamples.
// The result is not pixel accurate: Quality is heuristic and the geometry is an
// estimated near-square layout.
func Heuristic(data []byte, maxSamples int) Result {
	body := data
	if len(data) >= 2*headerSkip {
		body = data[headerSkip:]
	}
	triples := len(body) / 3

	stride := 1
	if triples > maxSamples {
		stride = int(math.Ceil(float64(triples) / float64(maxSamples)))
	}

	pixels := make([]models.RGB, 0, triples/stride+1)
	for i := 0; i < triples; i += stride {
		off := i * 3
		pixels = append(pixels, models.RGB{R: body[off], G: body[off+1], B: body[off+2]})
	}

	w, h := EstimateGeometry(len(pixels))
	return Result{
		Pixels:            pixels,
		Width:             w,
		Height:            h,
		Quality:           models.DataHeuristic,
		GeometryEstimated: true,
		Notes:             []string{"geometry estimated as a near-square layout; regional results are approximate"},
	}
}

// EstimateGeometry picks a near-square width x height with width*height >= n
// and fewer than width unused cells.
func EstimateGeometry(n int) (int, int) {
	if n <= 0 {
		return 0, 0
	}
	w := int(math.Ceil(math.Sqrt(float64(n))))
	h := (n + w - 1) / w
	return w, h
}
