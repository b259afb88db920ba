package stats

import (
	"github.com/chromalens/api/colorspace"
	"github.com/chromalens/api/models"
)

// Histograms counts every pixel once per channel. RGB bin i covers
// [i*256/bins, (i+1)*256/bins); hue spans 0..360 and S/V span 0..1.
func Histograms(pixels []models.RGB, bins int) models.Histograms {
	if bins <= 0 || bins > 256 {
		bins = DefaultBins
	}
	h := models.Histograms{
		Bins: bins,
		R:    make([]int, bins),
		G:    make([]int, bins),
		B:    make([]int, bins),
		H:    make([]int, bins),
		S:    make([]int, bins),
		V:    make([]int, bins),
	}
	for _, p := range pixels {
		h.R[int(p.R)*bins/256]++
		h.G[int(p.G)*bins/256]++
		h.B[int(p.B)*bins/256]++

		hsv := colorspace.RGBToHSV(p)
		h.H[unitBin(hsv.H/360, bins)]++
		h.S[unitBin(hsv.S, bins)]++
		h.V[unitBin(hsv.V, bins)]++
	}
	return h
}

func unitBin(v float64, bins int) int {
	i := int(v * float64(bins))
	if i < 0 {
		return 0
	}
	if i >= bins {
		return bins - 1
	}
	return i
}
