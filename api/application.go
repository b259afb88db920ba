package api

import (
	"context"
	"time"

	"github.com/chromalens/api/analysis"
	"github.com/chromalens/api/datastore"
	"github.com/chromalens/api/models"
)

type Config struct {
	HTTPPort         string
	DatabaseType     string
	DatabaseHost     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	SSLMode          string
	BlobURLSecret    string
	BlobURLTTL       int // seconds
	PublicBaseURL    string
	AllowedOrigins   []string
	DevMode          bool
	MaxImageBytes    int64
	StoreImages      bool
	RetentionDays    int
	GeminiAPIKey     string
	GeminiModel      string
	Analysis         analysis.Options
}

// LabelDetector names what an image shows; the labels become naming hints
type LabelDetector interface {
	DetectLabels(ctx context.Context, data []byte, contentType string) ([]models.LabelHint, error)
}

// Narrator turns a finished analysis into prose
type Narrator interface {
	Narrate(ctx context.Context, result models.AnalysisResult) (string, error)
}

type Application struct {
	Config       Config
	Blobs        datastore.BlobStore
	AnalysisRepo datastore.AnalysisRepository
	// Labels and Narrator are optional
	Labels   LabelDetector
	Narrator Narrator
}

// Signer mints download links for stored images
func (cfg Config) Signer() models.BlobURLSigner {
	ttl := time.Duration(cfg.BlobURLTTL) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return models.BlobURLSigner{
		Secret:  cfg.BlobURLSecret,
		BaseURL: cfg.PublicBaseURL,
		TTL:     ttl,
	}
}
