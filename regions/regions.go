// Package regions partitions a sampled image into a grid and summarizes each
// cell, then compares the center with the outer ring and scores visual balance.
package regions

import (
	"fmt"
	"math"

	"github.com/chromalens/api/colorspace"
	"github.com/chromalens/api/models"
	"github.com/chromalens/api/naming"
	"github.com/chromalens/api/sampler"
)

const DefaultGridSize = 3

// placeholder is reported for cells that received no samples.
var placeholder = models.RGB{R: 128, G: 128, B: 128}

var threeByThree = [3][3]string{
	{"Top-Left", "Top-Center", "Top-Right"},
	{"Middle-Left", "Center", "Middle-Right"},
	{"Bottom-Left", "Bottom-Center", "Bottom-Right"},
}

// tally counts colors in first-seen order so ties resolve deterministically.
type tally struct {
	counts map[models.RGB]int
	order  []models.RGB
	n      int
	r, g   float64
	b      float64
	lum    float64
	sat    float64
}

func newTally() *tally {
	return &tally{counts: make(map[models.RGB]int)}
}

func (t *tally) add(c models.RGB) {
	if _, ok := t.counts[c]; !ok {
		t.order = append(t.order, c)
	}
	t.counts[c]++
	t.n++
	t.r += float64(c.R)
	t.g += float64(c.G)
	t.b += float64(c.B)
	t.lum += colorspace.Luminance(c)
	t.sat += colorspace.RGBToHSV(c).S
}

func (t *tally) merge(o *tally) {
	for _, c := range o.order {
		if _, ok := t.counts[c]; !ok {
			t.order = append(t.order, c)
		}
		t.counts[c] += o.counts[c]
	}
	t.n += o.n
	t.r += o.r
	t.g += o.g
	t.b += o.b
	t.lum += o.lum
	t.sat += o.sat
}

func (t *tally) dominant() (models.RGB, int) {
	var best models.RGB
	bestN := 0
	for _, c := range t.order {
		if n := t.counts[c]; n > bestN {
			best, bestN = c, n
		}
	}
	return best, bestN
}

func (t *tally) average() models.RGB {
	n := float64(t.n)
	return models.RGB{
		R: uint8(math.Round(t.r / n)),
		G: uint8(math.Round(t.g / n)),
		B: uint8(math.Round(t.b / n)),
	}
}

func (t *tally) meanBrightness() float64 {
	if t.n == 0 {
		return 0
	}
	return t.lum / float64(t.n)
}

func (t *tally) meanSaturation() float64 {
	if t.n == 0 {
		return 0
	}
	return t.sat / float64(t.n)
}

// Analyze partitions row-major pixels over a width x height raster into
// gridSize x gridSize cells. When the geometry does not cover the pixels a
// near-square layout is assumed. Every pixel lands in exactly one cell.
func Analyze(pixels []models.RGB, width, height, gridSize int) models.RegionalAnalysis {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	if width <= 0 || height <= 0 || width*height < len(pixels) {
		width, height = sampler.EstimateGeometry(len(pixels))
	}

	cells := make([]*tally, gridSize*gridSize)
	for i := range cells {
		cells[i] = newTally()
	}
	for i, p := range pixels {
		x, y := i%width, i/width
		col := x * gridSize / width
		row := y * gridSize / height
		cells[row*gridSize+col].add(p)
	}

	out := models.RegionalAnalysis{GridSize: gridSize, Regions: make([]models.RegionResult, 0, len(cells))}
	for i, cell := range cells {
		out.Regions = append(out.Regions, summarize(cell, i/gridSize, i%gridSize, gridSize))
	}
	out.CenterEdge = centerEdge(cells, gridSize)
	out.Balance = balance(out.Regions, gridSize)
	return out
}

// RegionID names a cell; 3x3 grids use positional names.
func RegionID(row, col, gridSize int) string {
	if gridSize == 3 {
		return threeByThree[row][col]
	}
	return fmt.Sprintf("R%dC%d", row+1, col+1)
}

func summarize(t *tally, row, col, gridSize int) models.RegionResult {
	res := models.RegionResult{
		RegionID: RegionID(row, col, gridSize),
		Row:      row,
		Column:   col,
	}
	if t.n == 0 {
		res.Empty = true
		res.AverageColor = placeholder
		res.DominantColor = naming.Summary(placeholder, 0, 0)
		return res
	}
	dom, n := t.dominant()
	res.DominantColor = naming.Summary(dom, n, t.n)
	res.AverageColor = t.average()
	res.PixelCount = t.n
	res.UniqueColorCount = len(t.counts)
	res.Brightness = round4(t.meanBrightness())
	res.Saturation = round4(t.meanSaturation())
	return res
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
