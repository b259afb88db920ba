package cluster

import (
	"math"

	"github.com/chromalens/api/colorspace"
	"github.com/chromalens/api/models"
)

// looseClusterDeltaE is the RMS spread at which a cluster scores zero.
const looseClusterDeltaE = 25.0

// clusterQuality scores each cluster by its RMS distance to the center.
func clusterQuality(points []point, assign []int, centers []models.LAB) []float64 {
	sq := make([]float64, len(centers))
	weights := make([]float64, len(centers))
	for i, p := range points {
		c := assign[i]
		sq[c] += p.weight * colorspace.LabDistanceSq(p.lab, centers[c])
		weights[c] += p.weight
	}

	quality := make([]float64, len(centers))
	for c := range centers {
		if weights[c] == 0 {
			continue
		}
		rms := math.Sqrt(sq[c] / weights[c])
		quality[c] = colorspace.Clamp01(1 - rms/looseClusterDeltaE)
	}
	return quality
}

// silhouette approximates the mean silhouette coefficient on at most limit
// unique colors. Duplicate samples of a color sit at distance zero from it,
// which the weighting accounts for.
func silhouette(points []point, assign []int, k, limit int) float64 {
	if k < 2 || len(points) < 2 {
		return 0
	}

	idx := make([]int, 0, min(limit, len(points)))
	step := int(math.Ceil(float64(len(points)) / float64(limit)))
	for i := 0; i < len(points); i += step {
		idx = append(idx, i)
	}

	clusterWeight := make([]float64, k)
	for _, i := range idx {
		clusterWeight[assign[i]] += points[i].weight
	}

	total, totalWeight := 0.0, 0.0
	sums := make([]float64, k)
	for _, i := range idx {
		for c := range sums {
			sums[c] = 0
		}
		for _, j := range idx {
			if i == j {
				continue
			}
			sums[assign[j]] += points[j].weight * colorspace.LabDistance(points[i].lab, points[j].lab)
		}

		own := assign[i]
		ownWeight := clusterWeight[own] - 1
		s := 0.0
		if ownWeight > 0 {
			a := sums[own] / ownWeight
			b := math.MaxFloat64
			for c := range sums {
				if c == own || clusterWeight[c] == 0 {
					continue
				}
				b = math.Min(b, sums[c]/clusterWeight[c])
			}
			if b != math.MaxFloat64 {
				if m := math.Max(a, b); m > 0 {
					s = (b - a) / m
				}
			}
		}
		total += s * points[i].weight
		totalWeight += points[i].weight
	}

	if totalWeight == 0 {
		return 0
	}
	return total / totalWeight
}
