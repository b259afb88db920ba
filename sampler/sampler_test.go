package sampler

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chromalens/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSample_DecodesPNG(t *testing.T) {
	data := encodePNG(t, solidImage(10, 8, color.NRGBA{R: 200, G: 100, B: 50, A: 255}))

	res, err := Sample(data, 1000)
	require.NoError(t, err)
	assert.Equal(t, models.DataDecoded, res.Quality)
	assert.Equal(t, "png", res.Format)
	assert.Equal(t, 10, res.Width)
	assert.Equal(t, 8, res.Height)
	assert.False(t, res.GeometryEstimated)
	require.Len(t, res.Pixels, 80)
	for _, p := range res.Pixels {
		assert.Equal(t, models.RGB{R: 200, G: 100, B: 50}, p)
	}
}

func TestSample_DecodesBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, solidImage(4, 4, color.NRGBA{B: 255, A: 255})))

	res, err := Sample(buf.Bytes(), 1000)
	require.NoError(t, err)
	assert.Equal(t, "bmp", res.Format)
	assert.Equal(t, models.DataDecoded, res.Quality)
	assert.Equal(t, models.RGB{B: 255}, res.Pixels[0])
}

func TestSample_DownsamplesToBudget(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 300, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 300; x++ {
			if x < 150 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{G: 255, A: 255})
			}
		}
	}

	res, err := Sample(encodePNG(t, img), 5000)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Pixels), 5000)
	assert.Equal(t, res.Width*res.Height, len(res.Pixels))
	assert.Equal(t, 300, res.SourceWidth)
	assert.Equal(t, 200, res.SourceHeight)
	assert.NotEmpty(t, res.Notes)

	// nearest neighbour keeps only source colors
	for _, p := range res.Pixels {
		assert.Contains(t, []models.RGB{{R: 255}, {G: 255}}, p)
	}
	assert.Equal(t, models.RGB{R: 255}, res.Pixels[0])
	assert.Equal(t, models.RGB{G: 255}, res.Pixels[res.Width-1])
}

func TestSample_TransparentOntoWhite(t *testing.T) {
	data := encodePNG(t, solidImage(2, 2, color.NRGBA{}))
	res, err := Sample(data, 100)
	require.NoError(t, err)
	for _, p := range res.Pixels {
		assert.Equal(t, models.RGB{R: 255, G: 255, B: 255}, p)
	}
}

func TestSample_HeuristicFallback(t *testing.T) {
	data := bytes.Repeat([]byte{10, 20, 30}, 100)

	res, err := Sample(data, 1000)
	require.NoError(t, err)
	assert.Equal(t, models.DataHeuristic, res.Quality)
	assert.True(t, res.GeometryEstimated)
	assert.NotEmpty(t, res.Pixels)
	assert.GreaterOrEqual(t, res.Width*res.Height, len(res.Pixels))
	assert.Len(t, res.Notes, 2)
}

func TestSample_HeuristicHonoursBudget(t *testing.T) {
	data := make([]byte, 3*10000)
	res, err := Sample(data, 500)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Pixels), 500)
}

func TestSample_TooShort(t *testing.T) {
	_, err := Sample(nil, 100)
	require.ErrorIs(t, err, ErrNoData)

	_, err = Sample([]byte{1, 2}, 100)
	require.ErrorIs(t, err, ErrNoData)
}

func TestEstimateGeometry(t *testing.T) {
	for _, n := range []int{1, 2, 9, 10, 17, 1000} {
		w, h := EstimateGeometry(n)
		assert.GreaterOrEqual(t, w*h, n)
		assert.Less(t, w*h-n, w)
	}
	w, h := EstimateGeometry(9)
	assert.Equal(t, 3, w)
	assert.Equal(t, 3, h)
}

func TestFitWithin(t *testing.T) {
	w, h := fitWithin(1000, 500, 50000)
	assert.LessOrEqual(t, w*h, 50000)
	assert.InDelta(t, 2.0, float64(w)/float64(h), 0.1)

	w, h = fitWithin(10, 10, 50000)
	assert.Equal(t, 10, w)
	assert.Equal(t, 10, h)
}

// hugePNG returns a tiny PNG whose header declares w x h pixels.
func hugePNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := encodePNG(t, solidImage(1, 1, color.NRGBA{A: 255}))
	// signature(8) length(4) "IHDR"(4) then width and height
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestSampleWithin_RejectsOversizedHeader(t *testing.T) {
	data := hugePNG(t, 40000, 40000)

	_, err := Sample(data, 1000)
	var tooLarge TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, 40000, tooLarge.Width)
	assert.Equal(t, int64(DefaultMaxPixels), tooLarge.Limit)

	_, err = SampleWithin(encodePNG(t, solidImage(20, 20, color.NRGBA{A: 255})), 1000, 100)
	require.ErrorAs(t, err, &tooLarge)

	res, err := SampleWithin(encodePNG(t, solidImage(10, 10, color.NRGBA{A: 255})), 1000, 100)
	require.NoError(t, err)
	assert.Len(t, res.Pixels, 100)
}
