package naming

import (
	"strings"
	"unicode"

	"github.com/chromalens/api/colorspace"
	"github.com/chromalens/api/models"
)

// MinHintConfidence is the lowest label confidence, on a [0,1] scale, that may
// rename a color. Confidences above 1 are read as percentages.
const MinHintConfidence = 0.5

type hintRule struct {
	keywords []string
	// hue window in degrees; wraps through 0 when hueFrom > hueTo
	hueFrom, hueTo float64
	minSat         float64
	maxSat         float64
	minLum         float64
	name           string
}

var hintRules = []hintRule{
	{keywords: []string{"sky", "cloud"}, hueFrom: 180, hueTo: 250, minSat: 0.15, maxSat: 1, name: "Sky Blue"},
	{keywords: []string{"ocean", "sea", "water", "lake", "river"}, hueFrom: 170, hueTo: 250, minSat: 0.2, maxSat: 1, name: "Ocean Blue"},
	{keywords: []string{"grass", "lawn", "leaf", "foliage", "tree", "plant", "forest"}, hueFrom: 70, hueTo: 170, minSat: 0.2, maxSat: 1, name: "Leaf Green"},
	{keywords: []string{"sunset", "sunrise", "dusk"}, hueFrom: 340, hueTo: 50, minSat: 0.3, maxSat: 1, name: "Sunset Orange"},
	{keywords: []string{"sand", "beach", "desert"}, hueFrom: 25, hueTo: 60, minSat: 0.1, maxSat: 0.6, minLum: 0.4, name: "Sand"},
	{keywords: []string{"snow", "ice"}, hueFrom: 0, hueTo: 360, maxSat: 0.15, minLum: 0.8, name: "Snow White"},
	{keywords: []string{"skin", "face", "person", "portrait"}, hueFrom: 0, hueTo: 45, minSat: 0.15, maxSat: 0.7, minLum: 0.3, name: "Skin Tone"},
}

// NameWithHints names c, preferring a scene-specific name when a confident
// label matches and the color fits that label. Only the name is affected.
func NameWithHints(c models.RGB, hints []models.LabelHint) string {
	if len(hints) == 0 {
		return Name(c)
	}
	hsv := colorspace.RGBToHSV(c)
	lum := colorspace.Luminance(c)
	for _, rule := range hintRules {
		if !rule.fits(hsv, lum) {
			continue
		}
		for _, h := range hints {
			if normalizedConfidence(h.Confidence) >= MinHintConfidence && rule.mentions(h) {
				return rule.name
			}
		}
	}
	return Name(c)
}

func normalizedConfidence(c float64) float64 {
	if c > 1 {
		return c / 100
	}
	return c
}

func (r hintRule) fits(hsv models.HSV, lum float64) bool {
	if hsv.S < r.minSat || hsv.S > r.maxSat || lum < r.minLum {
		return false
	}
	if r.hueFrom <= r.hueTo {
		return hsv.H >= r.hueFrom && hsv.H <= r.hueTo
	}
	return hsv.H >= r.hueFrom || hsv.H <= r.hueTo
}

// mentions reports whether any whole word of the label or its categories is
// one of the rule's keywords, singular or plural.
func (r hintRule) mentions(h models.LabelHint) bool {
	texts := append([]string{h.Label}, h.Categories...)
	for _, text := range texts {
		for _, word := range words(text) {
			for _, kw := range r.keywords {
				if word == kw || word == kw+"s" || word == kw+"es" {
					return true
				}
			}
		}
	}
	return false
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(c rune) bool {
		return !unicode.IsLetter(c)
	})
}
