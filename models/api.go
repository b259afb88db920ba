package models

// AnalyzeOptions are the per-request analysis knobs; zero values mean server defaults
type AnalyzeOptions struct {
	K             int    `json:"k,omitempty"`
	MaxSamples    int    `json:"maxSamples,omitempty"`
	GridSize      int    `json:"gridSize,omitempty"`
	HistogramBins int    `json:"histogramBins,omitempty"`
	Seed          *int64 `json:"seed,omitempty"`
}

// AnalyzeRequest is the body of POST /v1/analyze
type AnalyzeRequest struct {
	Image           string         `json:"image"`
	Options         AnalyzeOptions `json:"options"`
	Hints           []LabelHint    `json:"hints,omitempty"`
	DetectLabels    bool           `json:"detectLabels"`
	IncludeInsights bool           `json:"includeInsights"`
}

// AnalyzeResponse wraps the analysis with application-level extras
type AnalyzeResponse struct {
	ID       string         `json:"id"`
	ImageURL string         `json:"imageUrl,omitempty"`
	Cached   bool           `json:"cached"`
	Labels   []LabelHint    `json:"labels,omitempty"`
	Analysis AnalysisResult `json:"analysis"`
	Insights string         `json:"insights,omitempty"`
}

// BatchAnalyzeRequest is the body of POST /v1/analyze/batch
type BatchAnalyzeRequest struct {
	Images  []string       `json:"images"`
	Options AnalyzeOptions `json:"options"`
}

// BatchItem is one entry of a batch response, either an analysis or an error
type BatchItem struct {
	Index    int              `json:"index"`
	Response *AnalyzeResponse `json:"response,omitempty"`
	Error    *string          `json:"error,omitempty"`
}

type BatchAnalyzeResponse struct {
	Items []BatchItem `json:"items"`
}
