package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisRecord is a stored analysis run
type AnalysisRecord struct {
	ID          string          `json:"id" db:"id"`
	ImageHash   string          `json:"imageHash" db:"image_hash"`
	Fingerprint string          `json:"fingerprint" db:"fingerprint"`
	BlobKey     string          `json:"blobKey,omitempty" db:"blob_key"`
	DataQuality string          `json:"dataQuality" db:"data_quality"`
	Result      json.RawMessage `json:"result" db:"result"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// AnalysisRecordSummary is the list view of a stored analysis
type AnalysisRecordSummary struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	DataQuality string    `json:"dataQuality"`
	Palette     []string  `json:"palette"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewAnalysisRecord serializes a result into a record with a fresh ID
func NewAnalysisRecord(imageHash, fingerprint, blobKey string, result AnalysisResult) (AnalysisRecord, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return AnalysisRecord{}, fmt.Errorf("error parsing json for AnalysisResult %v", err)
	}
	return AnalysisRecord{
		ID:          uuid.New().String(),
		ImageHash:   imageHash,
		Fingerprint: fingerprint,
		BlobKey:     blobKey,
		DataQuality: string(result.Metadata.DataQuality),
		Result:      raw,
		CreatedAt:   time.Now(),
	}, nil
}

// Decode unmarshals the stored result
func (rec AnalysisRecord) Decode() (AnalysisResult, error) {
	var result AnalysisResult
	if err := json.Unmarshal(rec.Result, &result); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode analysis %s: %w", rec.ID, err)
	}
	return result, nil
}

// Summary builds the list view; records whose result no longer parses get an empty palette
func (rec AnalysisRecord) Summary() AnalysisRecordSummary {
	summary := AnalysisRecordSummary{
		ID:          rec.ID,
		Date:        rec.CreatedAt.Format("2006-01-02"),
		DataQuality: rec.DataQuality,
		Palette:     []string{},
		CreatedAt:   rec.CreatedAt,
	}
	if result, err := rec.Decode(); err == nil {
		for _, dc := range result.DominantColors {
			summary.Palette = append(summary.Palette, dc.Hex)
		}
	}
	return summary
}

// ImageBlob is raw image bytes held by the blob store
type ImageBlob struct {
	Key         string    `json:"key" db:"key"`
	ContentType string    `json:"contentType" db:"content_type"`
	Data        []byte    `json:"-" db:"data"`
	Size        int       `json:"size" db:"size"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
