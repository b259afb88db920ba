package regions

import (
	"math"

	"github.com/chromalens/api/colorspace"
	"github.com/chromalens/api/models"
	"github.com/chromalens/api/naming"
)

// centerEdge compares interior cells with the border ring. Grids smaller than
// 3x3 have no interior and yield nil.
func centerEdge(cells []*tally, gridSize int) *models.CenterEdge {
	if gridSize < 3 {
		return nil
	}
	center, edge := newTally(), newTally()
	for i, cell := range cells {
		row, col := i/gridSize, i%gridSize
		if row == 0 || col == 0 || row == gridSize-1 || col == gridSize-1 {
			edge.merge(cell)
		} else {
			center.merge(cell)
		}
	}
	if center.n == 0 || edge.n == 0 {
		return nil
	}

	cDom, cN := center.dominant()
	eDom, eN := edge.dominant()
	return &models.CenterEdge{
		Center:               naming.Summary(cDom, cN, center.n),
		Edge:                 naming.Summary(eDom, eN, edge.n),
		DeltaE:               math.Round(colorspace.LabDistance(colorspace.RGBToLab(cDom), colorspace.RGBToLab(eDom))*100) / 100,
		BrightnessDifference: round4(center.meanBrightness() - edge.meanBrightness()),
	}
}

// VisualWeight of a region: darker and more saturated areas weigh more.
func VisualWeight(r models.RegionResult) float64 {
	return float64(r.PixelCount) * (0.5*(1-r.Brightness) + 0.5*r.Saturation)
}

// BalanceScore is 1 - |a-b|/(a+b) clamped to [0,1]; two empty sides are balanced.
func BalanceScore(a, b float64) float64 {
	if a+b == 0 {
		return 1
	}
	return colorspace.Clamp01(1 - math.Abs(a-b)/(a+b))
}

// balance compares left vs right columns and top vs bottom rows. The middle
// column or row of an odd grid belongs to neither side.
func balance(regions []models.RegionResult, gridSize int) models.VisualBalance {
	var left, right, top, bottom float64
	half := gridSize / 2
	upper := (gridSize + 1) / 2
	for _, r := range regions {
		w := VisualWeight(r)
		if r.Column < half {
			left += w
		} else if r.Column >= upper {
			right += w
		}
		if r.Row < half {
			top += w
		} else if r.Row >= upper {
			bottom += w
		}
	}
	h := BalanceScore(left, right)
	v := BalanceScore(top, bottom)
	return models.VisualBalance{
		Horizontal: round4(h),
		Vertical:   round4(v),
		Overall:    round4((h + v) / 2),
	}
}
