// Package analysis runs the color pipeline for one image: sample, cluster,
// name, partition into regions and aggregate statistics. It holds no state
// between calls and performs no I/O.
package analysis

import (
	"errors"
	"math"
	"time"

	"github.com/chromalens/api/cluster"
	"github.com/chromalens/api/colorspace"
	"github.com/chromalens/api/models"
	"github.com/chromalens/api/naming"
	"github.com/chromalens/api/regions"
	"github.com/chromalens/api/sampler"
	"github.com/chromalens/api/stats"
)

// Analyze decodes data and returns the full color analysis. Empty or truncated
// input fails with DecodeError; input that yields no pixels fails with
// InsufficientDataError; a header declaring more than MaxPixels fails with
// TooLargeError.
func Analyze(data []byte, opts Options, hints []models.LabelHint) (models.AnalysisResult, error) {
	start := time.Now()
	if err := opts.Validate(); err != nil {
		return models.AnalysisResult{}, err
	}
	opts = opts.withDefaults()

	sample, err := sampler.SampleWithin(data, opts.MaxSamples, opts.MaxPixels)
	if err != nil {
		if errors.Is(err, sampler.ErrNoData) {
			return models.AnalysisResult{}, DecodeError{Err: err}
		}
		return models.AnalysisResult{}, err
	}
	return run(sample, opts, hints, start)
}

// AnalyzeSamples analyses pixels that were sampled elsewhere. Width and height
// describe the row-major layout; zero values estimate a near-square one.
func AnalyzeSamples(pixels []models.RGB, width, height int, opts Options, hints []models.LabelHint) (models.AnalysisResult, error) {
	start := time.Now()
	if err := opts.Validate(); err != nil {
		return models.AnalysisResult{}, err
	}
	opts = opts.withDefaults()

	sample := sampler.Result{
		Pixels:       pixels,
		Width:        width,
		Height:       height,
		SourceWidth:  width,
		SourceHeight: height,
		Quality:      models.DataDecoded,
	}
	if width <= 0 || height <= 0 || width*height < len(pixels) {
		sample.Width, sample.Height = sampler.EstimateGeometry(len(pixels))
		sample.GeometryEstimated = true
		sample.Notes = append(sample.Notes, "geometry unknown; regions use an estimated near-square layout")
	}
	return run(sample, opts, hints, start)
}

func run(sample sampler.Result, opts Options, hints []models.LabelHint, start time.Time) (models.AnalysisResult, error) {
	if len(sample.Pixels) == 0 {
		return models.AnalysisResult{}, InsufficientDataError{Reason: "no pixels could be sampled"}
	}

	clusters := cluster.Cluster(sample.Pixels, opts.clusterOptions())
	dominant := dominantColors(clusters, len(sample.Pixels), hints)
	agg := stats.Aggregate(sample.Pixels, dominant, opts.HistogramBins)

	notes := make([]string, 0, len(sample.Notes)+len(clusters.Notes))
	notes = append(notes, sample.Notes...)
	notes = append(notes, clusters.Notes...)

	return models.AnalysisResult{
		DominantColors:  dominant,
		Regions:         regions.Analyze(sample.Pixels, sample.Width, sample.Height, opts.GridSize),
		Histograms:      agg.Histograms,
		Frequency:       agg.Frequency,
		Characteristics: agg.Characteristics,
		Metadata: models.Metadata{
			SampleCount:       len(sample.Pixels),
			DataQuality:       sample.Quality,
			Format:            sample.Format,
			SourceWidth:       sample.SourceWidth,
			SourceHeight:      sample.SourceHeight,
			SampledWidth:      sample.Width,
			SampledHeight:     sample.Height,
			GeometryEstimated: sample.GeometryEstimated,
			K:                 len(dominant),
			AutoK:             clusters.AutoK,
			Seed:              opts.Seed,
			Iterations:        clusters.Iterations,
			Converged:         clusters.Converged,
			Inertia:           round(clusters.Inertia, 4),
			Silhouette:        round(clusters.Silhouette, 4),
			QualityScore:      round(clusters.QualityScore, 4),
			ProcessingTimeMs:  time.Since(start).Milliseconds(),
			ProcessingNotes:   notes,
		},
	}, nil
}

// dominantColors converts ranked clusters into named colors. Clusters that
// ended up empty are dropped.
func dominantColors(res cluster.Result, total int, hints []models.LabelHint) []models.DominantColor {
	out := make([]models.DominantColor, 0, len(res.Centers))
	for i, center := range res.Centers {
		if res.Sizes[i] == 0 {
			continue
		}
		rgb := colorspace.LabToRGB(center)
		class := naming.Classify(rgb)
		out = append(out, models.DominantColor{
			Rank:            len(out) + 1,
			RGB:             rgb,
			LAB:             models.LAB{L: round(center.L, 2), A: round(center.A, 2), B: round(center.B, 2)},
			Hex:             rgb.Hex(),
			Percentage:      round(float64(res.Sizes[i])/float64(total)*100, 2),
			PixelCount:      res.Sizes[i],
			Name:            naming.NameWithHints(rgb, hints),
			Temperature:     class.Temperature,
			Brightness:      class.Brightness,
			SaturationLevel: class.SaturationLevel,
			QualityScore:    round(res.ClusterQuality[i], 4),
		})
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
