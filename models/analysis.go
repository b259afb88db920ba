package models

// DataQuality tells consumers whether colors came from decoded pixels
type DataQuality string

const (
	DataDecoded   DataQuality = "decoded"
	DataHeuristic DataQuality = "heuristic"
)

// Harmony types
const (
	HarmonyMonochromatic = "monochromatic"
	HarmonyAnalogous     = "analogous"
	HarmonyComplementary = "complementary"
	HarmonyTriadic       = "triadic"
	HarmonyMixed         = "mixed"
)

// DominantColor is one cluster center, ranked by descending share
type DominantColor struct {
	Rank            int             `json:"rank"`
	RGB             RGB             `json:"rgb"`
	LAB             LAB             `json:"lab"`
	Hex             string          `json:"hex"`
	Percentage      float64         `json:"percentage"`
	PixelCount      int             `json:"pixelCount"`
	Name            string          `json:"name"`
	Temperature     Temperature     `json:"temperature"`
	Brightness      Brightness      `json:"brightness"`
	SaturationLevel SaturationLevel `json:"saturationLevel"`
	QualityScore    float64         `json:"qualityScore"`
}

// ColorSummary is a lighter DominantColor used for regions and frequency tables
type ColorSummary struct {
	RGB         RGB         `json:"rgb"`
	Hex         string      `json:"hex"`
	Name        string      `json:"name"`
	Temperature Temperature `json:"temperature"`
	Count       int         `json:"count"`
	Percentage  float64     `json:"percentage"`
}

// RegionResult describes one grid cell
type RegionResult struct {
	RegionID         string       `json:"regionId"`
	Row              int          `json:"row"`
	Column           int          `json:"column"`
	DominantColor    ColorSummary `json:"dominantColor"`
	AverageColor     RGB          `json:"averageColor"`
	PixelCount       int          `json:"pixelCount"`
	UniqueColorCount int          `json:"uniqueColorCount"`
	Brightness       float64      `json:"brightness"`
	Saturation       float64      `json:"saturation"`
	Empty            bool         `json:"empty,omitempty"`
}

// CenterEdge compares the center of the frame with its outer ring
type CenterEdge struct {
	Center               ColorSummary `json:"center"`
	Edge                 ColorSummary `json:"edge"`
	DeltaE               float64      `json:"deltaE"`
	BrightnessDifference float64      `json:"brightnessDifference"`
}

// VisualBalance scores in [0,1], 1 being perfectly balanced
type VisualBalance struct {
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
	Overall    float64 `json:"overall"`
}

// RegionalAnalysis groups the grid cells and the views derived from them
type RegionalAnalysis struct {
	GridSize   int            `json:"gridSize"`
	Regions    []RegionResult `json:"regions"`
	CenterEdge *CenterEdge    `json:"centerEdge,omitempty"`
	Balance    VisualBalance  `json:"balance"`
}

// Histograms hold per-channel bin counts; every channel sums to the sample count
type Histograms struct {
	Bins int   `json:"bins"`
	R    []int `json:"r"`
	G    []int `json:"g"`
	B    []int `json:"b"`
	H    []int `json:"h"`
	S    []int `json:"s"`
	V    []int `json:"v"`
}

type Frequency struct {
	UniqueColorCount  int            `json:"uniqueColorCount"`
	DiversityIndex    float64        `json:"diversityIndex"`
	Entropy           float64        `json:"entropy"`
	MostFrequentColor ColorSummary   `json:"mostFrequentColor"`
	TopColors         []ColorSummary `json:"topColors"`
}

type Characteristics struct {
	TemperatureClass  Temperature     `json:"temperatureClass"`
	TemperatureScore  float64         `json:"temperatureScore"`
	WarmPct           float64         `json:"warmPct"`
	CoolPct           float64         `json:"coolPct"`
	NeutralPct        float64         `json:"neutralPct"`
	AverageBrightness float64         `json:"averageBrightness"`
	BrightnessLevel   Brightness      `json:"brightnessLevel"`
	AverageSaturation float64         `json:"averageSaturation"`
	SaturationLevel   SaturationLevel `json:"saturationLevel"`
	HarmonyType       string          `json:"harmonyType"`
	HarmonyScore      float64         `json:"harmonyScore"`
	ContrastRange     float64         `json:"contrastRange"`
}

type Metadata struct {
	SampleCount       int         `json:"sampleCount"`
	DataQuality       DataQuality `json:"dataQuality"`
	Format            string      `json:"format,omitempty"`
	SourceWidth       int         `json:"sourceWidth"`
	SourceHeight      int         `json:"sourceHeight"`
	SampledWidth      int         `json:"sampledWidth"`
	SampledHeight     int         `json:"sampledHeight"`
	GeometryEstimated bool        `json:"geometryEstimated"`
	K                 int         `json:"k"`
	AutoK             bool        `json:"autoK"`
	Seed              int64       `json:"seed"`
	Iterations        int         `json:"iterations"`
	Converged         bool        `json:"converged"`
	Inertia           float64     `json:"inertia"`
	Silhouette        float64     `json:"silhouette"`
	QualityScore      float64     `json:"qualityScore"`
	FallbackPalette   bool        `json:"fallbackPalette"`
	ProcessingTimeMs  int64       `json:"processingTimeMs"`
	ProcessingNotes   []string    `json:"processingNotes"`
}

// AnalysisResult is the root aggregate produced by one analysis run
type AnalysisResult struct {
	DominantColors  []DominantColor  `json:"dominantColors"`
	Regions         RegionalAnalysis `json:"regions"`
	Histograms      Histograms       `json:"histograms"`
	Frequency       Frequency        `json:"frequency"`
	Characteristics Characteristics  `json:"characteristics"`
	Metadata        Metadata         `json:"metadata"`
}
