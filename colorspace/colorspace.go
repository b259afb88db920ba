// Package colorspace converts between sRGB, CIE L*a*b* and HSV and measures
// distances between colors. Every other package goes through these helpers so
// that a single LAB conversion is used system wide.
package colorspace

import (
	"math"

	"github.com/chromalens/api/models"
	"github.com/lucasb-eyer/go-colorful"
)

// labScale maps go-colorful's normalized L*a*b* (L in [0,1]) to conventional units.
const labScale = 100.0

func toColorful(c models.RGB) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// RGBToLab converts through linear sRGB and XYZ with a D65 white point.
func RGBToLab(c models.RGB) models.LAB {
	l, a, b := toColorful(c).Lab()
	return models.LAB{L: l * labScale, A: a * labScale, B: b * labScale}
}

// LabToRGB converts back to sRGB, clamping out-of-gamut values.
func LabToRGB(lab models.LAB) models.RGB {
	c := colorful.Lab(lab.L/labScale, lab.A/labScale, lab.B/labScale).Clamped()
	r, g, b := c.RGB255()
	return models.RGB{R: r, G: g, B: b}
}

// RGBToHSV returns hue in [0,360), saturation and value in [0,1].
func RGBToHSV(c models.RGB) models.HSV {
	h, s, v := toColorful(c).Hsv()
	if h >= 360 {
		h -= 360
	}
	return models.HSV{H: h, S: s, V: v}
}

// LabDistance is the Euclidean distance (CIE76 ΔE).
func LabDistance(a, b models.LAB) float64 {
	return math.Sqrt(LabDistanceSq(a, b))
}

func LabDistanceSq(a, b models.LAB) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return dl*dl + da*da + db*db
}

// Luminance is the Rec. 601 luma normalized to [0,1].
func Luminance(c models.RGB) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255.0
}

// HueDifference is the shortest angular distance between two hues, in [0,180].
func HueDifference(h1, h2 float64) float64 {
	d := math.Mod(math.Abs(h1-h2), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Clamp01 limits v to [0,1].
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
