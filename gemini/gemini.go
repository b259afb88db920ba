// Package gemini provides the optional enrichment collaborators backed by
// Gemini: scene labels used as naming hints, and a short prose reading of a
// finished analysis. Neither feeds back into the color numbers.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/chromalens/api/models"
)

const DefaultModel = "gemini-2.0-flash"

// maxLabels bounds how many labels are kept from one response
const maxLabels = 15

const labelPrompt = `Identify the main objects, scenery and materials in this image.
Return ONLY a JSON array. Each element is an object with:
"label" (one or two lowercase words), "confidence" (0 to 1), "categories" (array of short lowercase strings).
Return at most 15 elements, most confident first.`

type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// DetectLabels asks the model what the image shows.
func (c *Client) DetectLabels(ctx context.Context, data []byte, contentType string) ([]models.LabelHint, error) {
	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType(contentType), Data: data},
		genai.Text(labelPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate labels: %w", err)
	}
	return parseLabels(responseText(resp))
}

// Narrate writes a few sentences about the palette of a finished analysis.
func (c *Client) Narrate(ctx context.Context, result models.AnalysisResult) (string, error) {
	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(insightPrompt(result)))
	if err != nil {
		return "", fmt.Errorf("failed to generate insights: %w", err)
	}
	return strings.TrimSpace(responseText(resp)), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}

func mimeType(contentType string) string {
	switch contentType {
	case "image/png", "image/gif", "image/webp", "image/jpeg":
		return contentType
	default:
		return "image/jpeg"
	}
}

var fence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// parseLabels reads the model's JSON array, tolerating markdown fences and
// percentage confidences.
func parseLabels(text string) ([]models.LabelHint, error) {
	text = strings.TrimSpace(text)
	if m := fence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	if text == "" {
		return []models.LabelHint{}, nil
	}

	var raw []models.LabelHint
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("error parsing json for labels %w", err)
	}

	labels := make([]models.LabelHint, 0, len(raw))
	seen := make(map[string]bool)
	for _, l := range raw {
		l.Label = strings.TrimSpace(strings.ToLower(l.Label))
		if l.Label == "" || seen[l.Label] {
			continue
		}
		if l.Confidence > 1 {
			l.Confidence /= 100
		}
		if l.Categories == nil {
			l.Categories = []string{}
		}
		seen[l.Label] = true
		labels = append(labels, l)
		if len(labels) == maxLabels {
			break
		}
	}
	return labels, nil
}

func insightPrompt(result models.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("You are a color consultant. In three or four sentences, describe the mood and use of this palette.\n")
	b.WriteString("Do not invent colors that are not listed.\n\nDominant colors:\n")
	for _, dc := range result.DominantColors {
		fmt.Fprintf(&b, "- %s %s %.1f%% (%s, %s, %s saturation)\n",
			dc.Name, dc.Hex, dc.Percentage, dc.Temperature, dc.Brightness, dc.SaturationLevel)
	}
	ch := result.Characteristics
	fmt.Fprintf(&b, "\nTemperature: %s (warm %.0f%%, cool %.0f%%, neutral %.0f%%)\n", ch.TemperatureClass, ch.WarmPct, ch.CoolPct, ch.NeutralPct)
	fmt.Fprintf(&b, "Harmony: %s\nBrightness: %s\nSaturation: %s\n", ch.HarmonyType, ch.BrightnessLevel, ch.SaturationLevel)
	if result.Metadata.DataQuality == models.DataHeuristic {
		b.WriteString("Note: colors were estimated from undecodable data and may be inaccurate.\n")
	}
	return b.String()
}
