package colorspace

import (
	"testing"

	"github.com/chromalens/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabDistance_SelfAndSymmetry(t *testing.T) {
	colors := []models.RGB{
		{R: 255, G: 0, B: 0},
		{R: 12, G: 200, B: 99},
		{R: 128, G: 128, B: 128},
		{R: 0, G: 0, B: 0},
	}
	for _, a := range colors {
		la := RGBToLab(a)
		assert.Zero(t, LabDistance(la, la))
		for _, b := range colors {
			lb := RGBToLab(b)
			assert.InDelta(t, LabDistance(la, lb), LabDistance(lb, la), 1e-12)
		}
	}
}

func TestRGBToLab_ReferenceValues(t *testing.T) {
	white := RGBToLab(models.RGB{R: 255, G: 255, B: 255})
	assert.InDelta(t, 100.0, white.L, 0.5)
	assert.InDelta(t, 0.0, white.A, 0.5)
	assert.InDelta(t, 0.0, white.B, 0.5)

	black := RGBToLab(models.RGB{})
	assert.InDelta(t, 0.0, black.L, 0.01)

	red := RGBToLab(models.RGB{R: 255})
	assert.InDelta(t, 53.2, red.L, 0.5)
	assert.InDelta(t, 80.1, red.A, 0.5)
	assert.InDelta(t, 67.2, red.B, 0.5)
}

func TestLabToRGB_RoundTrip(t *testing.T) {
	for _, c := range []models.RGB{{R: 255}, {G: 255}, {B: 255}, {R: 10, G: 20, B: 30}, {R: 200, G: 180, B: 40}} {
		back := LabToRGB(RGBToLab(c))
		assert.InDelta(t, float64(c.R), float64(back.R), 1)
		assert.InDelta(t, float64(c.G), float64(back.G), 1)
		assert.InDelta(t, float64(c.B), float64(back.B), 1)
	}
}

func TestRGBToHSV_ReferenceValues(t *testing.T) {
	tests := []struct {
		name string
		in   models.RGB
		want models.HSV
	}{
		{"pure red", models.RGB{R: 255}, models.HSV{H: 0, S: 1, V: 1}},
		{"pure blue", models.RGB{B: 255}, models.HSV{H: 240, S: 1, V: 1}},
		{"cyan", models.RGB{G: 255, B: 255}, models.HSV{H: 180, S: 1, V: 1}},
		{"mid gray", models.RGB{R: 128, G: 128, B: 128}, models.HSV{H: 0, S: 0, V: 128.0 / 255.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToHSV(tt.in)
			require.InDelta(t, tt.want.H, got.H, 0.5)
			require.InDelta(t, tt.want.S, got.S, 0.01)
			require.InDelta(t, tt.want.V, got.V, 0.01)
		})
	}
}

func TestHueDifference(t *testing.T) {
	assert.InDelta(t, 180.0, HueDifference(0, 180), 1e-9)
	assert.InDelta(t, 20.0, HueDifference(350, 10), 1e-9)
	assert.InDelta(t, 20.0, HueDifference(10, 350), 1e-9)
	assert.InDelta(t, 0.0, HueDifference(90, 90), 1e-9)
}

func TestLuminance(t *testing.T) {
	assert.InDelta(t, 1.0, Luminance(models.RGB{R: 255, G: 255, B: 255}), 1e-9)
	assert.InDelta(t, 0.0, Luminance(models.RGB{}), 1e-9)
	assert.InDelta(t, 0.299, Luminance(models.RGB{R: 255}), 1e-9)
}
