// Package stats aggregates histograms, frequency tables and palette-level
// characteristics from the sampled pixels and the ranked dominant colors.
package stats

import (
	"math"

	"github.com/chromalens/api/models"
)

const DefaultBins = 16

// Summary is everything Aggregate derives from one sample set
type Summary struct {
	Histograms      models.Histograms
	Frequency       models.Frequency
	Characteristics models.Characteristics
}

func Aggregate(pixels []models.RGB, dominant []models.DominantColor, bins int) Summary {
	return Summary{
		Histograms:      Histograms(pixels, bins),
		Frequency:       Frequencies(pixels),
		Characteristics: Characterize(dominant),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
