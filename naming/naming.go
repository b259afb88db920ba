// Package naming gives colors human-readable names and coarse classes.
//
// Thresholds (shared with the aggregate statistics):
//   - temperature: HSV saturation < 0.15 is neutral; otherwise hue in [0,60) or
//     [300,360) is warm, [120,300) is cool and [60,120) is neutral
//   - brightness: Rec. 601 luminance > 0.7 is light, < 0.3 is dark
//   - saturation: HSV saturation > 0.6 is high, < 0.25 is low
package naming

import (
	"math"

	"github.com/chromalens/api/colorspace"
	"github.com/chromalens/api/models"
)

const (
	NeutralSaturation = 0.15
	LightLuminance    = 0.7
	DarkLuminance     = 0.3
	HighSaturation    = 0.6
	LowSaturation     = 0.25
)

// Name returns the nearest reference color name by LAB distance.
func Name(c models.RGB) string {
	lab := colorspace.RGBToLab(c)
	best, bestD := "", math.MaxFloat64
	for _, ref := range references {
		if d := colorspace.LabDistanceSq(lab, ref.lab); d < bestD {
			best, bestD = ref.name, d
		}
	}
	return best
}

// Classify returns temperature, brightness and saturation classes.
func Classify(c models.RGB) models.ColorClass {
	hsv := colorspace.RGBToHSV(c)
	return models.ColorClass{
		Temperature:     TemperatureOf(hsv),
		Brightness:      BrightnessOf(colorspace.Luminance(c)),
		SaturationLevel: SaturationOf(hsv.S),
	}
}

func TemperatureOf(hsv models.HSV) models.Temperature {
	if hsv.S < NeutralSaturation {
		return models.Neutral
	}
	switch {
	case hsv.H < 60 || hsv.H >= 300:
		return models.Warm
	case hsv.H >= 120 && hsv.H < 300:
		return models.Cool
	default:
		return models.Neutral
	}
}

func BrightnessOf(luminance float64) models.Brightness {
	switch {
	case luminance > LightLuminance:
		return models.Light
	case luminance < DarkLuminance:
		return models.Dark
	default:
		return models.Medium
	}
}

func SaturationOf(s float64) models.SaturationLevel {
	switch {
	case s > HighSaturation:
		return models.SaturationHigh
	case s < LowSaturation:
		return models.SaturationLow
	default:
		return models.SaturationMedium
	}
}

// IsChromatic reports whether the color carries a meaningful hue.
func IsChromatic(c models.RGB) bool {
	return colorspace.RGBToHSV(c).S >= NeutralSaturation
}

// Summary builds a named ColorSummary for c covering count of total samples.
func Summary(c models.RGB, count, total int) models.ColorSummary {
	pct := 0.0
	if total > 0 {
		pct = math.Round(float64(count)/float64(total)*10000) / 100
	}
	return models.ColorSummary{
		RGB:         c,
		Hex:         c.Hex(),
		Name:        Name(c),
		Temperature: TemperatureOf(colorspace.RGBToHSV(c)),
		Count:       count,
		Percentage:  pct,
	}
}
