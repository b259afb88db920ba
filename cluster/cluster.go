// Package cluster groups color samples into dominant colors with a seeded,
// weighted K-Means++ initialization followed by Lloyd iterations in CIE LAB.
//
// Samples are first collapsed into unique colors carrying a weight equal to
// their multiplicity; every step below is weighted, so results match running
// on the raw samples while touching far fewer points.
package cluster

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/chromalens/api/colorspace"
	"github.com/chromalens/api/models"
)

type Options struct {
	// K is the number of clusters; 0 selects it with the elbow heuristic.
	K    int
	MinK int
	MaxK int

	Seed          int64
	MaxIterations int
	// Tolerance is the largest center shift, in ΔE, that counts as converged.
	Tolerance float64
	// ElbowGain is the relative inertia drop below which adding a cluster stops paying off.
	ElbowGain float64
	// ElbowPointCap bounds the unique colors used while scanning k.
	ElbowPointCap     int
	SilhouetteSamples int
	// TimeBudget stops the k scan early; zero means unbounded.
	TimeBudget time.Duration
}

func DefaultOptions() Options {
	return Options{
		MinK:              2,
		MaxK:              12,
		Seed:              42,
		MaxIterations:     30,
		Tolerance:         1.0,
		ElbowGain:         0.15,
		ElbowPointCap:     4000,
		SilhouetteSamples: 256,
	}
}

// Result holds clusters sorted by descending size.
type Result struct {
	Centers []models.LAB
	Sizes   []int
	// Assignments maps each input sample to its cluster index.
	Assignments []int
	// ClusterQuality is a per-cluster compactness score in [0,1].
	ClusterQuality []float64
	Inertia        float64
	Silhouette     float64
	QualityScore   float64
	K              int
	AutoK          bool
	Iterations     int
	Converged      bool
	Notes          []string
}

type point struct {
	lab    models.LAB
	weight float64
}

type run struct {
	centers    []models.LAB
	assign     []int
	inertia    float64
	iterations int
	converged  bool
}

// Cluster partitions samples. Callers pass a non-empty slice.
func Cluster(samples []models.RGB, opts Options) Result {
	opts = withDefaults(opts)
	points, index := dedupe(samples)

	res := Result{AutoK: opts.K <= 0}
	k := opts.K
	if res.AutoK {
		k, res.Notes = chooseK(points, opts)
	} else if k > len(points) {
		res.Notes = append(res.Notes, fmt.Sprintf("k=%d clamped to %d distinct colors", k, len(points)))
		k = len(points)
	}

	best := lloyd(points, k, newRNG(opts.Seed, k), opts)
	res.K = len(best.centers)
	res.Iterations = best.iterations
	res.Converged = best.converged
	res.Inertia = best.inertia

	order := rankBySize(points, best)
	rank := make([]int, len(order))
	for r, c := range order {
		rank[c] = r
	}

	res.Centers = make([]models.LAB, len(order))
	res.Sizes = make([]int, len(order))
	for r, c := range order {
		res.Centers[r] = best.centers[c]
	}
	pointRank := make([]int, len(points))
	for i, c := range best.assign {
		pointRank[i] = rank[c]
	}
	res.Assignments = make([]int, len(samples))
	for i, p := range index {
		res.Assignments[i] = pointRank[p]
		res.Sizes[pointRank[p]]++
	}

	res.ClusterQuality = clusterQuality(points, pointRank, res.Centers)
	res.Silhouette = silhouette(points, pointRank, res.K, opts.SilhouetteSamples)
	if res.Inertia == 0 {
		res.QualityScore = 1
	} else {
		res.QualityScore = colorspace.Clamp01((res.Silhouette + 1) / 2)
	}
	return res
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.MinK <= 0 {
		opts.MinK = def.MinK
	}
	if opts.MaxK <= 0 {
		opts.MaxK = def.MaxK
	}
	if opts.MaxK < opts.MinK {
		opts.MaxK = opts.MinK
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = def.MaxIterations
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = def.Tolerance
	}
	if opts.ElbowGain <= 0 {
		opts.ElbowGain = def.ElbowGain
	}
	if opts.ElbowPointCap <= 0 {
		opts.ElbowPointCap = def.ElbowPointCap
	}
	if opts.SilhouetteSamples <= 0 {
		opts.SilhouetteSamples = def.SilhouetteSamples
	}
	return opts
}

// newRNG is call local so concurrent analyses never share a generator.
func newRNG(seed int64, k int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(k)))
}

// dedupe collapses samples into weighted unique colors in first-seen order.
func dedupe(samples []models.RGB) ([]point, []int) {
	seen := make(map[models.RGB]int)
	points := make([]point, 0)
	index := make([]int, len(samples))
	for i, s := range samples {
		p, ok := seen[s]
		if !ok {
			p = len(points)
			seen[s] = p
			points = append(points, point{lab: colorspace.RGBToLab(s)})
		}
		points[p].weight++
		index[i] = p
	}
	return points, index
}

// chooseK scans k and stops at the first diminishing return.
func chooseK(points []point, opts Options) (int, []string) {
	distinct := len(points)
	if distinct <= 1 {
		return 1, nil
	}
	lo := min(opts.MinK, distinct)
	hi := min(opts.MaxK, distinct)

	subset := points
	var notes []string
	if len(points) > opts.ElbowPointCap {
		subset = stride(points, opts.ElbowPointCap)
		notes = append(notes, fmt.Sprintf("k chosen on %d of %d distinct colors", len(subset), len(points)))
	}

	start := time.Now()
	prev := -1.0
	for k := lo; k <= hi; k++ {
		r := lloyd(subset, k, newRNG(opts.Seed, k), opts)
		if r.inertia == 0 {
			return k, notes
		}
		if prev > 0 && (prev-r.inertia)/prev < opts.ElbowGain {
			return k - 1, notes
		}
		prev = r.inertia
		if opts.TimeBudget > 0 && time.Since(start) > opts.TimeBudget {
			return k, append(notes, fmt.Sprintf("k scan stopped at %d: time budget exhausted", k))
		}
	}
	return hi, notes
}

func stride(points []point, limit int) []point {
	step := int(math.Ceil(float64(len(points)) / float64(limit)))
	out := make([]point, 0, limit)
	for i := 0; i < len(points); i += step {
		out = append(out, points[i])
	}
	return out
}

func lloyd(points []point, k int, rng *rand.Rand, opts Options) run {
	centers := seedPlusPlus(points, k, rng)
	assign := make([]int, len(points))

	r := run{}
	for r.iterations < opts.MaxIterations {
		r.iterations++
		assignNearest(points, centers, assign)
		next := recompute(points, assign, centers)

		shift := 0.0
		for i := range centers {
			shift = math.Max(shift, colorspace.LabDistance(centers[i], next[i]))
		}
		centers = next
		if shift < opts.Tolerance {
			r.converged = true
			break
		}
	}

	r.inertia = assignNearest(points, centers, assign)
	r.centers = centers
	r.assign = assign
	return r
}

// seedPlusPlus picks the first center with probability proportional to weight
// (uniform over samples) and each following one proportional to weight times
// squared distance to the nearest chosen center.
func seedPlusPlus(points []point, k int, rng *rand.Rand) []models.LAB {
	centers := make([]models.LAB, 0, k)

	total := 0.0
	for _, p := range points {
		total += p.weight
	}
	centers = append(centers, points[pick(points, func(p point, _ int) float64 { return p.weight }, total, rng)].lab)

	d2 := make([]float64, len(points))
	for i, p := range points {
		d2[i] = colorspace.LabDistanceSq(p.lab, centers[0])
	}

	for len(centers) < k {
		sum := 0.0
		for i, p := range points {
			sum += p.weight * d2[i]
		}
		if sum == 0 {
			break
		}
		next := points[pick(points, func(p point, i int) float64 { return p.weight * d2[i] }, sum, rng)].lab
		centers = append(centers, next)
		for i, p := range points {
			d2[i] = math.Min(d2[i], colorspace.LabDistanceSq(p.lab, next))
		}
	}
	return centers
}

func pick(points []point, mass func(point, int) float64, total float64, rng *rand.Rand) int {
	target := rng.Float64() * total
	cumulative := 0.0
	last := 0
	for i, p := range points {
		m := mass(p, i)
		if m <= 0 {
			continue
		}
		cumulative += m
		last = i
		if cumulative > target {
			return i
		}
	}
	return last
}

// assignNearest assigns every point to its closest center (lowest index on
// ties) and returns the weighted inertia.
func assignNearest(points []point, centers []models.LAB, assign []int) float64 {
	inertia := 0.0
	for i, p := range points {
		best, bestD := 0, math.MaxFloat64
		for c, center := range centers {
			if d := colorspace.LabDistanceSq(p.lab, center); d < bestD {
				best, bestD = c, d
			}
		}
		assign[i] = best
		inertia += p.weight * bestD
	}
	return inertia
}

// recompute moves each center to the weighted mean of its points; an empty
// cluster keeps its previous center.
func recompute(points []point, assign []int, prev []models.LAB) []models.LAB {
	sums := make([]models.LAB, len(prev))
	weights := make([]float64, len(prev))
	for i, p := range points {
		c := assign[i]
		sums[c].L += p.lab.L * p.weight
		sums[c].A += p.lab.A * p.weight
		sums[c].B += p.lab.B * p.weight
		weights[c] += p.weight
	}

	next := make([]models.LAB, len(prev))
	for c := range prev {
		if weights[c] == 0 {
			next[c] = prev[c]
			continue
		}
		next[c] = models.LAB{L: sums[c].L / weights[c], A: sums[c].A / weights[c], B: sums[c].B / weights[c]}
	}
	return next
}

// rankBySize orders cluster indices by descending weight, stable on index.
func rankBySize(points []point, r run) []int {
	weights := make([]float64, len(r.centers))
	for i, p := range points {
		weights[r.assign[i]] += p.weight
	}
	order := make([]int, len(r.centers))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return weights[order[a]] > weights[order[b]]
	})
	return order
}
