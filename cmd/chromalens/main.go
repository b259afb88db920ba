// Command chromalens analyses local image files and prints the color report
// as JSON, YAML or a colored text summary.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/chromalens/api/analysis"
	"github.com/chromalens/api/models"
)

type fileReport struct {
	File     string                 `json:"file"`
	Analysis *models.AnalysisResult `json:"analysis,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("chromalens", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	def := analysis.DefaultOptions()
	k := flags.Int("k", 0, "number of dominant colors (0 picks automatically)")
	maxSamples := flags.Int("max-samples", def.MaxSamples, "upper bound on sampled pixels")
	grid := flags.IntP("grid", "g", def.GridSize, "region grid size")
	seed := flags.Int64("seed", def.Seed, "clustering seed")
	bins := flags.Int("bins", def.HistogramBins, "histogram bins per channel")
	budget := flags.Duration("time-budget", 0, "stop searching for k after this long (0 is unbounded)")
	output := flags.StringP("output", "o", "json", "output format: json, yaml or text")
	hints := flags.StringSlice("hint", nil, "scene label used to refine color names, e.g. --hint sky")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: chromalens [flags] FILE...\n\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	opts := analysis.Options{
		MaxSamples:    *maxSamples,
		K:             *k,
		Seed:          *seed,
		GridSize:      *grid,
		HistogramBins: *bins,
		TimeBudget:    *budget,
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(stderr, "chromalens: %v\n", err)
		return 2
	}

	labelHints := make([]models.LabelHint, 0, len(*hints))
	for _, h := range *hints {
		labelHints = append(labelHints, models.LabelHint{Label: h, Confidence: 1})
	}

	reports := make([]fileReport, 0, flags.NArg())
	failed := false
	for _, path := range flags.Args() {
		report := fileReport{File: path}
		data, err := os.ReadFile(path)
		if err == nil {
			var result models.AnalysisResult
			result, err = analysis.Analyze(data, opts, labelHints)
			if err == nil {
				report.Analysis = &result
			}
		}
		if err != nil {
			report.Error = err.Error()
			failed = true
		}
		reports = append(reports, report)
	}

	if err := write(stdout, *output, reports); err != nil {
		fmt.Fprintf(stderr, "chromalens: %v\n", err)
		return 2
	}
	if failed {
		return 1
	}
	return 0
}

func write(w io.Writer, format string, reports []fileReport) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml", "yml":
		// round trip through JSON so YAML keys match the JSON field names
		raw, err := json.Marshal(reports)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		for _, r := range reports {
			fmt.Fprint(w, renderText(r))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
}

func renderText(r fileReport) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.File) + "\n")
	if r.Analysis == nil {
		b.WriteString(errStyle.Render("  error: "+r.Error) + "\n\n")
		return b.String()
	}

	res := r.Analysis
	if res.Metadata.DataQuality == models.DataHeuristic {
		b.WriteString(warnStyle.Render("  heuristic sampling: colors are approximate") + "\n")
	}
	for _, dc := range res.DominantColors {
		fmt.Fprintf(&b, "  %s %s %6.2f%%  %-18s %s\n",
			swatch(dc.Hex), dc.Hex, dc.Percentage, dc.Name,
			labelStyle.Render(fmt.Sprintf("%s, %s, %s saturation", dc.Temperature, dc.Brightness, dc.SaturationLevel)))
	}

	ch := res.Characteristics
	fmt.Fprintf(&b, "  %s %s (warm %.0f%% / cool %.0f%% / neutral %.0f%%)\n",
		labelStyle.Render("temperature"), ch.TemperatureClass, ch.WarmPct, ch.CoolPct, ch.NeutralPct)
	fmt.Fprintf(&b, "  %s %s (%.2f)\n", labelStyle.Render("harmony"), ch.HarmonyType, ch.HarmonyScore)
	fmt.Fprintf(&b, "  %s %s  %s %s\n",
		labelStyle.Render("brightness"), ch.BrightnessLevel, labelStyle.Render("saturation"), ch.SaturationLevel)

	if reg := res.Regions; len(reg.Regions) > 0 {
		b.WriteString("  " + labelStyle.Render("regions") + "\n")
		for row := 0; row < reg.GridSize; row++ {
			b.WriteString("    ")
			for col := 0; col < reg.GridSize; col++ {
				b.WriteString(swatch(reg.Regions[row*reg.GridSize+col].DominantColor.Hex))
			}
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "  %s %d samples, k=%d, %dms\n\n",
		labelStyle.Render("metadata"), res.Metadata.SampleCount, res.Metadata.K, res.Metadata.ProcessingTimeMs)
	return b.String()
}
