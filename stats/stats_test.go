package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chromalens/api/colorspace"
	"github.com/chromalens/api/models"
)

func dominantOf(c models.RGB, pct float64, n int) models.DominantColor {
	return models.DominantColor{RGB: c, LAB: colorspace.RGBToLab(c), Percentage: pct, PixelCount: n}
}

func sum(v []int) int {
	total := 0
	for _, n := range v {
		total += n
	}
	return total
}

func TestHistograms_ConserveSamples(t *testing.T) {
	pixels := make([]models.RGB, 0, 1000)
	for i := 0; i < 1000; i++ {
		pixels = append(pixels, models.RGB{R: uint8(i), G: uint8(i * 7), B: uint8(255 - i%256)})
	}
	for _, bins := range []int{16, 8, 1, 256, 0} {
		h := Histograms(pixels, bins)
		for _, ch := range [][]int{h.R, h.G, h.B, h.H, h.S, h.V} {
			assert.Equal(t, len(pixels), sum(ch))
			assert.Len(t, ch, h.Bins)
		}
	}
}

func TestHistograms_BinBoundaries(t *testing.T) {
	h := Histograms([]models.RGB{{R: 0}, {R: 15}, {R: 16}, {R: 255}}, 16)
	assert.Equal(t, 2, h.R[0])
	assert.Equal(t, 1, h.R[1])
	assert.Equal(t, 1, h.R[15])
	// white has V == 1 and must land in the last bin
	h = Histograms([]models.RGB{{R: 255, G: 255, B: 255}}, 4)
	assert.Equal(t, 1, h.V[3])
}

func TestFrequencies(t *testing.T) {
	pixels := []models.RGB{{R: 1}, {G: 2}, {G: 2}, {B: 3}, {G: 2}, {R: 1}}
	f := Frequencies(pixels)
	assert.Equal(t, 3, f.UniqueColorCount)
	assert.Equal(t, 0.5, f.DiversityIndex)
	assert.Equal(t, models.RGB{G: 2}, f.MostFrequentColor.RGB)
	assert.Equal(t, 50.0, f.MostFrequentColor.Percentage)
	require.Len(t, f.TopColors, 3)
	assert.Equal(t, models.RGB{R: 1}, f.TopColors[1].RGB)
	assert.InDelta(t, 1.4591, f.Entropy, 1e-3)
}

func TestFrequencies_SingleColorHasZeroEntropy(t *testing.T) {
	f := Frequencies([]models.RGB{{R: 9}, {R: 9}})
	assert.Equal(t, 0.0, f.Entropy)
	assert.Equal(t, 100.0, f.MostFrequentColor.Percentage)
}

func TestFrequencies_TopColorsCapped(t *testing.T) {
	pixels := make([]models.RGB, 0, 40)
	for i := 0; i < 40; i++ {
		pixels = append(pixels, models.RGB{R: uint8(i)})
	}
	f := Frequencies(pixels)
	assert.Len(t, f.TopColors, TopColorCount)
	assert.Equal(t, 40, f.UniqueColorCount)
}

func TestCharacterize_RedIsWarm(t *testing.T) {
	ch := Characterize([]models.DominantColor{dominantOf(models.RGB{R: 255}, 100, 1000)})
	assert.Equal(t, models.Warm, ch.TemperatureClass)
	assert.Equal(t, 100.0, ch.WarmPct)
	assert.Equal(t, 0.0, ch.CoolPct)
	assert.Equal(t, 0.0, ch.NeutralPct)
	assert.Equal(t, 1.0, ch.TemperatureScore)
	assert.Equal(t, models.SaturationHigh, ch.SaturationLevel)
	assert.Equal(t, models.HarmonyMonochromatic, ch.HarmonyType)
	assert.Equal(t, 0.0, ch.ContrastRange)
}

func TestCharacterize_RedCyanIsComplementary(t *testing.T) {
	ch := Characterize([]models.DominantColor{
		dominantOf(models.RGB{R: 255}, 50, 500),
		dominantOf(models.RGB{G: 255, B: 255}, 50, 500),
	})
	assert.Equal(t, models.HarmonyComplementary, ch.HarmonyType)
	assert.Equal(t, 1.0, ch.HarmonyScore)
	assert.Equal(t, 50.0, ch.WarmPct)
	assert.Equal(t, 50.0, ch.CoolPct)
	assert.Equal(t, models.Neutral, ch.TemperatureClass)
	assert.Greater(t, ch.ContrastRange, 100.0)
}

func TestCharacterize_SharesSumToHundred(t *testing.T) {
	ch := Characterize([]models.DominantColor{
		dominantOf(models.RGB{R: 200, G: 40, B: 40}, 33.33, 333),
		dominantOf(models.RGB{R: 40, G: 40, B: 200}, 33.33, 333),
		dominantOf(models.RGB{R: 120, G: 120, B: 120}, 33.34, 334),
	})
	assert.InDelta(t, 100.0, ch.WarmPct+ch.CoolPct+ch.NeutralPct, 1e-9)
	assert.InDelta(t, 33.34, ch.NeutralPct, 0.005)
}

func TestCharacterize_NeutralShareNeverNegative(t *testing.T) {
	ch := Characterize([]models.DominantColor{
		dominantOf(models.RGB{R: 220, G: 30, B: 30}, 0.005, 1),
		dominantOf(models.RGB{R: 30, G: 30, B: 220}, 99.995, 19999),
	})
	assert.GreaterOrEqual(t, ch.NeutralPct, 0.0)
	assert.InDelta(t, 100.0, ch.CoolPct, 0.01)
}

func TestCharacterize_Empty(t *testing.T) {
	ch := Characterize(nil)
	assert.Equal(t, 100.0, ch.NeutralPct)
	assert.Equal(t, models.Neutral, ch.TemperatureClass)
}

func TestHarmony(t *testing.T) {
	cases := []struct {
		name string
		hues []float64
		want string
	}{
		{"single", []float64{10}, models.HarmonyMonochromatic},
		{"none", nil, models.HarmonyMonochromatic},
		{"analogous", []float64{10, 25, 35}, models.HarmonyAnalogous},
		{"wraps analogous", []float64{350, 5}, models.HarmonyAnalogous},
		{"complementary", []float64{30, 215}, models.HarmonyComplementary},
		{"triadic", []float64{0, 120, 240}, models.HarmonyTriadic},
		{"mixed", []float64{0, 60}, models.HarmonyMixed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, score := Harmony(tc.hues)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		})
	}

	_, score := Harmony([]float64{0, 120, 240})
	assert.Equal(t, 1.0, score)
}

func TestAggregate(t *testing.T) {
	pixels := []models.RGB{{R: 255}, {R: 255}, {G: 255, B: 255}}
	s := Aggregate(pixels, []models.DominantColor{dominantOf(models.RGB{R: 255}, 66.67, 2), dominantOf(models.RGB{G: 255, B: 255}, 33.33, 1)}, 8)
	assert.Equal(t, 8, s.Histograms.Bins)
	assert.Equal(t, 2, s.Frequency.UniqueColorCount)
	assert.Equal(t, models.HarmonyComplementary, s.Characteristics.HarmonyType)
}
