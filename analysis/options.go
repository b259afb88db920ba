package analysis

import (
	"fmt"
	"time"

	"github.com/chromalens/api/cluster"
	"github.com/chromalens/api/models"
	"github.com/chromalens/api/regions"
	"github.com/chromalens/api/sampler"
	"github.com/chromalens/api/stats"
)

type Options struct {
	MaxSamples int
	// K fixes the number of dominant colors; 0 picks it automatically.
	K             int
	MaxK          int
	Seed          int64
	GridSize      int
	HistogramBins int
	MaxIterations int
	// TimeBudget bounds the automatic k search; zero means unbounded.
	TimeBudget time.Duration
	// MaxPixels caps the source resolution an image header may declare.
	MaxPixels int64
}

func DefaultOptions() Options {
	c := cluster.DefaultOptions()
	return Options{
		MaxSamples:    sampler.DefaultMaxSamples,
		MaxK:          c.MaxK,
		Seed:          c.Seed,
		GridSize:      regions.DefaultGridSize,
		HistogramBins: stats.DefaultBins,
		MaxIterations: c.MaxIterations,
		MaxPixels:     sampler.DefaultMaxPixels,
	}
}

// WithRequest overlays the non-zero request knobs onto o.
func (o Options) WithRequest(req models.AnalyzeOptions) Options {
	if req.K > 0 {
		o.K = req.K
	}
	if req.MaxSamples > 0 {
		o.MaxSamples = req.MaxSamples
	}
	if req.GridSize > 0 {
		o.GridSize = req.GridSize
	}
	if req.HistogramBins > 0 {
		o.HistogramBins = req.HistogramBins
	}
	if req.Seed != nil {
		o.Seed = *req.Seed
	}
	return o
}

// Validate rejects knobs outside the supported ranges.
func (o Options) Validate() error {
	switch {
	case o.K < 0 || o.K > 32:
		return fmt.Errorf("k must be between 0 and 32, got %d", o.K)
	case o.MaxSamples < 0 || o.MaxSamples > 1_000_000:
		return fmt.Errorf("maxSamples must be between 1 and 1000000, got %d", o.MaxSamples)
	case o.GridSize < 0 || o.GridSize > 16:
		return fmt.Errorf("gridSize must be between 1 and 16, got %d", o.GridSize)
	case o.HistogramBins < 0 || o.HistogramBins > 256:
		return fmt.Errorf("histogramBins must be between 1 and 256, got %d", o.HistogramBins)
	case o.MaxPixels < 0:
		return fmt.Errorf("maxPixels must not be negative, got %d", o.MaxPixels)
	}
	return nil
}

// Fingerprint identifies every option that changes the result, for caching.
func (o Options) Fingerprint() string {
	o = o.withDefaults()
	return fmt.Sprintf("v1;k=%d;maxk=%d;samples=%d;grid=%d;bins=%d;seed=%d;iter=%d",
		o.K, o.MaxK, o.MaxSamples, o.GridSize, o.HistogramBins, o.Seed, o.MaxIterations)
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxSamples <= 0 {
		o.MaxSamples = def.MaxSamples
	}
	if o.MaxK <= 0 {
		o.MaxK = def.MaxK
	}
	if o.GridSize <= 0 {
		o.GridSize = def.GridSize
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = def.HistogramBins
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = def.MaxIterations
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = def.MaxPixels
	}
	return o
}

func (o Options) clusterOptions() cluster.Options {
	c := cluster.DefaultOptions()
	c.K = o.K
	c.MaxK = o.MaxK
	c.Seed = o.Seed
	c.MaxIterations = o.MaxIterations
	c.TimeBudget = o.TimeBudget
	return c
}
