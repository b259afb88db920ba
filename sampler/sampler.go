// Package sampler turns encoded image bytes into a bounded, row-major list of
// RGB samples. Real decoding is the primary path; bytes no registered codec
// understands are read with a documented heuristic and flagged as such.
package sampler

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/chromalens/api/models"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxSamples = 50000
	// DefaultMaxPixels caps the declared source resolution that will be decoded.
	DefaultMaxPixels = 64_000_000
)

// ErrNoData is returned for input too short to hold a single sample.
var ErrNoData = errors.New("image data is empty or shorter than one pixel")

// Result is the sampled pixel grid. Pixels are row-major over Width x Height.
type Result struct {
	Pixels            []models.RGB
	Width             int
	Height            int
	SourceWidth       int
	SourceHeight      int
	Format            string
	Quality           models.DataQuality
	GeometryEstimated bool
	Notes             []string
}

// TooLargeError is returned when an image header declares more pixels than
// the decoder is allowed to allocate.
type TooLargeError struct {
	Width, Height int
	Limit         int64
}

func (e TooLargeError) Error() string {
	return fmt.Sprintf("image is %dx%d pixels, limit is %d", e.Width, e.Height, e.Limit)
}

// Sample decodes data and returns at most maxSamples pixels.
func Sample(data []byte, maxSamples int) (Result, error) {
	return SampleWithin(data, maxSamples, DefaultMaxPixels)
}

// SampleWithin is Sample with an explicit cap on the source resolution. The
// header is checked before any pixel buffer is allocated.
func SampleWithin(data []byte, maxSamples int, maxPixels int64) (Result, error) {
	if len(data) < 3 {
		return Result{}, ErrNoData
	}
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		if cfg.Width < 0 || cfg.Height < 0 || int64(cfg.Width)*int64(cfg.Height) > maxPixels {
			return Result{}, TooLargeError{Width: cfg.Width, Height: cfg.Height, Limit: maxPixels}
		}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		res := Heuristic(data, maxSamples)
		res.Notes = append([]string{"decode failed (" + err.Error() + "); sampled raw bytes heuristically"}, res.Notes...)
		return res, nil
	}

	res := FromImage(img, maxSamples)
	res.Format = format
	return res, nil
}

// FromImage samples an already decoded image. Images larger than maxSamples are
// reduced with nearest-neighbour scaling so every sample is a real source pixel.
// Transparent pixels are composited onto white.
func FromImage(img image.Image, maxSamples int) Result {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	res := Result{
		SourceWidth:  srcW,
		SourceHeight: srcH,
		Quality:      models.DataDecoded,
	}
	if srcW == 0 || srcH == 0 {
		return res
	}

	w, h := fitWithin(srcW, srcH, maxSamples)
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if w == srcW && h == srcH {
		draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Over)
	} else {
		draw.NearestNeighbor.Scale(canvas, canvas.Bounds(), img, bounds, draw.Over, nil)
		res.Notes = append(res.Notes, "downsampled from source resolution to stay within the sample budget")
	}

	res.Width, res.Height = w, h
	res.Pixels = make([]models.RGB, 0, w*h)
	for y := 0; y < h; y++ {
		off := y * canvas.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			res.Pixels = append(res.Pixels, models.RGB{R: canvas.Pix[i], G: canvas.Pix[i+1], B: canvas.Pix[i+2]})
		}
	}
	return res
}

// fitWithin scales w x h uniformly so that the product does not exceed limit.
func fitWithin(w, h, limit int) (int, int) {
	if w*h <= limit {
		return w, h
	}
	scale := math.Sqrt(float64(limit) / float64(w*h))
	nw := max(1, int(float64(w)*scale))
	nh := max(1, int(float64(h)*scale))
	for nw*nh > limit {
		if nw >= nh {
			nw--
		} else {
			nh--
		}
	}
	return nw, nh
}
