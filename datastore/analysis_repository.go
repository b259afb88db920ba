package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chromalens/api/models"
)

// MaxListLimit caps ListRecent
const MaxListLimit = 100

type AnalysisRepository interface {
	Create(ctx context.Context, rec models.AnalysisRecord) (models.AnalysisRecord, error)
	Get(ctx context.Context, id string) (models.AnalysisRecord, error)
	// GetByFingerprint returns the newest record for an image analysed with the same options
	GetByFingerprint(ctx context.Context, imageHash, fingerprint string) (models.AnalysisRecord, error)
	ListRecent(ctx context.Context, limit int) ([]models.AnalysisRecord, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type AnalysisDatabase struct {
	database *sqlx.DB
}

func NewAnalysisDatabase(db *sqlx.DB) (AnalysisDatabase, error) {
	if db == nil {
		return AnalysisDatabase{}, fmt.Errorf("analysis database requires a connection")
	}
	return AnalysisDatabase{database: db}, nil
}

const analysisColumns = `id, image_hash, fingerprint, blob_key, data_quality, result, created_at`

// Create inserts a new analysis record
func (adb AnalysisDatabase) Create(ctx context.Context, rec models.AnalysisRecord) (models.AnalysisRecord, error) {
	_, err := adb.database.NamedExecContext(ctx, `
		INSERT INTO analyses (`+analysisColumns+`)
		VALUES (:id, :image_hash, :fingerprint, :blob_key, :data_quality, :result, :created_at)`,
		rec,
	)
	if err != nil {
		return models.AnalysisRecord{}, fmt.Errorf("failed to create analysis: %w", err)
	}
	return rec, nil
}

// Get retrieves an analysis by ID
func (adb AnalysisDatabase) Get(ctx context.Context, id string) (models.AnalysisRecord, error) {
	var rec models.AnalysisRecord
	err := adb.database.GetContext(ctx, &rec, `SELECT `+analysisColumns+` FROM analyses WHERE id = $1`, id)
	if err != nil {
		return models.AnalysisRecord{}, noRows(err)
	}
	return rec, nil
}

func (adb AnalysisDatabase) GetByFingerprint(ctx context.Context, imageHash, fingerprint string) (models.AnalysisRecord, error) {
	var rec models.AnalysisRecord
	err := adb.database.GetContext(ctx, &rec, `
		SELECT `+analysisColumns+`
		FROM analyses
		WHERE image_hash = $1 AND fingerprint = $2
		ORDER BY created_at DESC
		LIMIT 1`,
		imageHash, fingerprint,
	)
	if err != nil {
		return models.AnalysisRecord{}, noRows(err)
	}
	return rec, nil
}

// ListRecent returns the newest records first
func (adb AnalysisDatabase) ListRecent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	limit = clampLimit(limit)
	records := []models.AnalysisRecord{}
	err := adb.database.SelectContext(ctx, &records, `
		SELECT `+analysisColumns+`
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return records, nil
}

// PurgeOlderThan deletes records created before cutoff
func (adb AnalysisDatabase) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := adb.database.ExecContext(ctx, `DELETE FROM analyses WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge analyses: %w", err)
	}
	return res.RowsAffected()
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
