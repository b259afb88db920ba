package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chromalens/api/colorspace"
	"github.com/chromalens/api/models"
	"github.com/chromalens/api/naming"
)

// Harmony thresholds in degrees
const (
	AnalogousMaxMean       = 30.0
	ComplementaryTolerance = 15.0
	TriadicTolerance       = 20.0
	complementaryAngle     = 180.0
	triadicAngle           = 120.0
)

// Characterize derives palette-level traits from the dominant colors,
// each weighted by its percentage.
func Characterize(dominant []models.DominantColor) models.Characteristics {
	ch := models.Characteristics{
		TemperatureClass: models.Neutral,
		BrightnessLevel:  models.Medium,
		SaturationLevel:  models.SaturationMedium,
		HarmonyType:      models.HarmonyMonochromatic,
	}
	if len(dominant) == 0 {
		ch.NeutralPct = 100
		return ch
	}

	weights := make([]float64, len(dominant))
	lums := make([]float64, len(dominant))
	sats := make([]float64, len(dominant))
	var warm, cool float64
	var hues []float64
	for i, dc := range dominant {
		w := dc.Percentage
		if w <= 0 {
			w = float64(dc.PixelCount)
		}
		weights[i] = w
		lums[i] = colorspace.Luminance(dc.RGB)
		hsv := colorspace.RGBToHSV(dc.RGB)
		sats[i] = hsv.S
		if hsv.S >= naming.NeutralSaturation {
			hues = append(hues, hsv.H)
		}
		switch naming.TemperatureOf(hsv) {
		case models.Warm:
			warm += w
		case models.Cool:
			cool += w
		}
	}

	total := floats.Sum(weights)
	if total <= 0 {
		ch.NeutralPct = 100
		return ch
	}

	ch.WarmPct = round(warm/total*100, 2)
	ch.CoolPct = round(cool/total*100, 2)
	// warm and cool are rounded independently; never let the remainder go negative
	ch.NeutralPct = math.Max(0, round(100-ch.WarmPct-ch.CoolPct, 2))
	ch.TemperatureScore = round((ch.WarmPct-ch.CoolPct)/100, 4)
	ch.TemperatureClass = dominantTemperature(ch.WarmPct, ch.CoolPct, ch.NeutralPct)

	ch.AverageBrightness = round(stat.Mean(lums, weights), 4)
	ch.BrightnessLevel = naming.BrightnessOf(ch.AverageBrightness)
	ch.AverageSaturation = round(stat.Mean(sats, weights), 4)
	ch.SaturationLevel = naming.SaturationOf(ch.AverageSaturation)

	ch.HarmonyType, ch.HarmonyScore = Harmony(hues)
	ch.ContrastRange = contrastRange(dominant)
	return ch
}

func dominantTemperature(warm, cool, neutral float64) models.Temperature {
	switch {
	case warm > cool && warm > neutral:
		return models.Warm
	case cool > warm && cool > neutral:
		return models.Cool
	default:
		return models.Neutral
	}
}

// Harmony classifies chromatic hues. Rules are checked in order: fewer than
// two hues, analogous, complementary, triadic, then mixed. The score is the
// closeness to the winning rule's ideal in [0,1].
func Harmony(hues []float64) (string, float64) {
	if len(hues) < 2 {
		return models.HarmonyMonochromatic, 1
	}

	var sum float64
	pairs := 0
	bestComp, bestTri := math.Inf(1), math.Inf(1)
	for i := 0; i < len(hues); i++ {
		for j := i + 1; j < len(hues); j++ {
			d := colorspace.HueDifference(hues[i], hues[j])
			sum += d
			pairs++
			bestComp = math.Min(bestComp, math.Abs(d-complementaryAngle))
			bestTri = math.Min(bestTri, math.Abs(d-triadicAngle))
		}
	}
	mean := sum / float64(pairs)

	switch {
	case mean < AnalogousMaxMean:
		return models.HarmonyAnalogous, round(1-mean/AnalogousMaxMean, 4)
	case bestComp <= ComplementaryTolerance:
		return models.HarmonyComplementary, round(1-bestComp/ComplementaryTolerance, 4)
	case bestTri <= TriadicTolerance:
		return models.HarmonyTriadic, round(1-bestTri/TriadicTolerance, 4)
	default:
		return models.HarmonyMixed, 0
	}
}

// contrastRange is the largest LAB distance between any two dominant colors.
func contrastRange(dominant []models.DominantColor) float64 {
	var best float64
	for i := 0; i < len(dominant); i++ {
		for j := i + 1; j < len(dominant); j++ {
			best = math.Max(best, colorspace.LabDistance(dominant[i].LAB, dominant[j].LAB))
		}
	}
	return round(best, 2)
}
