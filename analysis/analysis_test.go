package analysis

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chromalens/api/models"
)

func repeat(c models.RGB, n int) []models.RGB {
	out := make([]models.RGB, n)
	for i := range out {
		out[i] = c
	}
	return out
}

func stripes(t *testing.T, w, h int, colors ...color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, colors[x*len(colors)/w])
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func assertInvariants(t *testing.T, res models.AnalysisResult) {
	t.Helper()
	var pct float64
	for _, dc := range res.DominantColors {
		pct += dc.Percentage
	}
	assert.InDelta(t, 100.0, pct, 0.5)

	for _, ch := range [][]int{res.Histograms.R, res.Histograms.G, res.Histograms.B, res.Histograms.H, res.Histograms.S, res.Histograms.V} {
		total := 0
		for _, n := range ch {
			total += n
		}
		assert.Equal(t, res.Metadata.SampleCount, total)
	}

	covered := 0
	for _, r := range res.Regions.Regions {
		covered += r.PixelCount
	}
	assert.Equal(t, res.Metadata.SampleCount, covered)
}

func TestAnalyzeSamples_PureRed(t *testing.T) {
	res, err := AnalyzeSamples(repeat(models.RGB{R: 255}, 1000), 40, 25, DefaultOptions(), nil)
	require.NoError(t, err)

	require.Len(t, res.DominantColors, 1)
	dc := res.DominantColors[0]
	assert.Equal(t, 1, dc.Rank)
	assert.InDelta(t, 100.0, dc.Percentage, 0.01)
	assert.Equal(t, models.Warm, dc.Temperature)
	assert.Contains(t, strings.ToLower(dc.Name), "red")
	assert.Equal(t, models.Warm, res.Characteristics.TemperatureClass)
	assert.Equal(t, models.DataDecoded, res.Metadata.DataQuality)
	assert.False(t, res.Metadata.FallbackPalette)
	assertInvariants(t, res)
}

func TestAnalyzeSamples_RedCyanComplementary(t *testing.T) {
	pixels := append(repeat(models.RGB{R: 255}, 500), repeat(models.RGB{G: 255, B: 255}, 500)...)
	res, err := AnalyzeSamples(pixels, 0, 0, DefaultOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, models.HarmonyComplementary, res.Characteristics.HarmonyType)
	require.Len(t, res.DominantColors, 2)
	assert.InDelta(t, 50.0, res.DominantColors[0].Percentage, 0.01)
	assert.True(t, res.Metadata.GeometryEstimated)
	assertInvariants(t, res)
}

func TestAnalyze_EmptyInputIsDecodeError(t *testing.T) {
	_, err := Analyze(nil, DefaultOptions(), nil)
	require.Error(t, err)
	var decodeErr DecodeError
	assert.True(t, errors.As(err, &decodeErr))

	_, err = Analyze([]byte{1, 2}, DefaultOptions(), nil)
	assert.True(t, errors.As(err, &decodeErr))
}

func TestAnalyzeSamples_NoPixelsIsInsufficientData(t *testing.T) {
	_, err := AnalyzeSamples(nil, 0, 0, DefaultOptions(), nil)
	var insufficient InsufficientDataError
	assert.True(t, errors.As(err, &insufficient))
}

func TestAnalyzeSamples_ThreeClusters(t *testing.T) {
	var pixels []models.RGB
	pixels = append(pixels, repeat(models.RGB{R: 250, G: 10, B: 10}, 100)...)
	pixels = append(pixels, repeat(models.RGB{R: 10, G: 250, B: 10}, 100)...)
	pixels = append(pixels, repeat(models.RGB{R: 10, G: 10, B: 250}, 100)...)

	opts := DefaultOptions()
	opts.K = 3
	res, err := AnalyzeSamples(pixels, 30, 10, opts, nil)
	require.NoError(t, err)

	require.Len(t, res.DominantColors, 3)
	got := map[models.RGB]float64{}
	for _, dc := range res.DominantColors {
		got[dc.RGB] = dc.Percentage
	}
	for _, want := range []models.RGB{{R: 250, G: 10, B: 10}, {R: 10, G: 250, B: 10}, {R: 10, G: 10, B: 250}} {
		assert.InDelta(t, 33.33, got[want], 0.01, "%v", want)
	}
	assert.False(t, res.Metadata.AutoK)
	assert.Equal(t, 3, res.Metadata.K)
	assertInvariants(t, res)
}

func TestAnalyze_DecodesPNG(t *testing.T) {
	data := stripes(t, 60, 30,
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{G: 255, A: 255},
		color.NRGBA{B: 255, A: 255},
	)
	res, err := Analyze(data, DefaultOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, models.DataDecoded, res.Metadata.DataQuality)
	assert.Equal(t, "png", res.Metadata.Format)
	assert.Equal(t, 60, res.Metadata.SourceWidth)
	assert.Equal(t, 1800, res.Metadata.SampleCount)
	assert.Equal(t, 3, res.Metadata.K)
	assert.Equal(t, models.RGB{R: 255}, res.Regions.Regions[0].DominantColor.RGB)
	assert.Equal(t, models.RGB{B: 255}, res.Regions.Regions[2].DominantColor.RGB)
	assertInvariants(t, res)
}

func TestAnalyze_ResolutionAboveLimit(t *testing.T) {
	data := stripes(t, 60, 30, color.NRGBA{R: 255, A: 255})
	opts := DefaultOptions()
	opts.MaxPixels = 1000

	_, err := Analyze(data, opts, nil)
	var tooLarge TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, 60, tooLarge.Width)
	assert.Equal(t, 30, tooLarge.Height)

	opts.MaxPixels = 1800
	_, err = Analyze(data, opts, nil)
	assert.NoError(t, err)
}

func TestAnalyze_UndecodableBytesAreFlaggedHeuristic(t *testing.T) {
	data := bytes.Repeat([]byte{200, 30, 30}, 200)
	res, err := Analyze(data, DefaultOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, models.DataHeuristic, res.Metadata.DataQuality)
	assert.True(t, res.Metadata.GeometryEstimated)
	assert.NotEmpty(t, res.Metadata.ProcessingNotes)
	assertInvariants(t, res)
}

func TestAnalyzeSamples_HintsOnlyChangeNames(t *testing.T) {
	pixels := repeat(models.RGB{R: 110, G: 170, B: 230}, 200)
	plain, err := AnalyzeSamples(pixels, 20, 10, DefaultOptions(), nil)
	require.NoError(t, err)
	hinted, err := AnalyzeSamples(pixels, 20, 10, DefaultOptions(), []models.LabelHint{{Label: "Sky", Confidence: 0.95}})
	require.NoError(t, err)

	assert.Equal(t, "Sky Blue", hinted.DominantColors[0].Name)
	assert.Equal(t, plain.DominantColors[0].RGB, hinted.DominantColors[0].RGB)
	assert.Equal(t, plain.DominantColors[0].Temperature, hinted.DominantColors[0].Temperature)
}

func TestAnalyzeSamples_Deterministic(t *testing.T) {
	pixels := make([]models.RGB, 0, 2000)
	for i := 0; i < 2000; i++ {
		pixels = append(pixels, models.RGB{R: uint8(i * 37), G: uint8(i * 11), B: uint8(i * 5)})
	}
	a, err := AnalyzeSamples(pixels, 50, 40, DefaultOptions(), nil)
	require.NoError(t, err)
	b, err := AnalyzeSamples(pixels, 50, 40, DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, a.DominantColors, b.DominantColors)
}

func TestOptions(t *testing.T) {
	seed := int64(7)
	opts := DefaultOptions().WithRequest(models.AnalyzeOptions{K: 4, GridSize: 2, Seed: &seed})
	assert.Equal(t, 4, opts.K)
	assert.Equal(t, 2, opts.GridSize)
	assert.Equal(t, int64(7), opts.Seed)
	assert.Equal(t, DefaultOptions().MaxSamples, opts.MaxSamples)
	assert.NoError(t, opts.Validate())

	assert.NotEqual(t, DefaultOptions().Fingerprint(), opts.Fingerprint())
	assert.Equal(t, DefaultOptions().Fingerprint(), Options{Seed: 42}.Fingerprint())

	assert.Error(t, Options{K: -1}.Validate())
	assert.Error(t, Options{GridSize: 40}.Validate())
	_, err := Analyze([]byte("xxxx"), Options{HistogramBins: 1000}, nil)
	assert.Error(t, err)
}
