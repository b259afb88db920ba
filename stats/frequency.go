package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/chromalens/api/models"
	"github.com/chromalens/api/naming"
)

// TopColorCount bounds Frequency.TopColors
const TopColorCount = 10

type colorCount struct {
	c models.RGB
	n int
}

// Frequencies builds the exact-color frequency table. Ties keep first-seen order.
func Frequencies(pixels []models.RGB) models.Frequency {
	if len(pixels) == 0 {
		return models.Frequency{TopColors: []models.ColorSummary{}}
	}

	index := make(map[models.RGB]int)
	var counts []colorCount
	for _, p := range pixels {
		i, ok := index[p]
		if !ok {
			i = len(counts)
			index[p] = i
			counts = append(counts, colorCount{c: p})
		}
		counts[i].n++
	}
	sort.SliceStable(counts, func(a, b int) bool { return counts[a].n > counts[b].n })

	total := len(pixels)
	probs := make([]float64, len(counts))
	for i, cc := range counts {
		probs[i] = float64(cc.n) / float64(total)
	}

	top := make([]models.ColorSummary, 0, TopColorCount)
	for i := 0; i < len(counts) && i < TopColorCount; i++ {
		top = append(top, naming.Summary(counts[i].c, counts[i].n, total))
	}

	return models.Frequency{
		UniqueColorCount:  len(counts),
		DiversityIndex:    round(float64(len(counts))/float64(total), 4),
		Entropy:           round(stat.Entropy(probs)/math.Ln2, 4),
		MostFrequentColor: top[0],
		TopColors:         top,
	}
}
