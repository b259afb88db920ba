package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chromalens/api/models"
)

// BlobStore keeps uploaded images and hands out signed links to them
type BlobStore interface {
	// Put stores blob under blob.Key and returns a signed download URL. Storing
	// the same key twice keeps the first copy's bytes and refreshes its age.
	Put(ctx context.Context, blob models.ImageBlob) (string, error)
	Get(ctx context.Context, key string) (models.ImageBlob, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type BlobDatabase struct {
	database *sqlx.DB
	signer   models.BlobURLSigner
}

func NewBlobDatabase(db *sqlx.DB, signer models.BlobURLSigner) (BlobDatabase, error) {
	if db == nil {
		return BlobDatabase{}, fmt.Errorf("blob database requires a connection")
	}
	return BlobDatabase{database: db, signer: signer}, nil
}

func (bdb BlobDatabase) Put(ctx context.Context, blob models.ImageBlob) (string, error) {
	blob = normalizeBlob(blob)
	_, err := bdb.database.NamedExecContext(ctx, `
		INSERT INTO image_blobs (key, content_type, data, size, created_at)
		VALUES (:key, :content_type, :data, :size, :created_at)
		ON CONFLICT (key) DO UPDATE SET created_at = EXCLUDED.created_at`,
		blob,
	)
	if err != nil {
		return "", fmt.Errorf("failed to store image %s: %w", blob.Key, err)
	}
	return bdb.signer.URL(blob.Key)
}

func (bdb BlobDatabase) Get(ctx context.Context, key string) (models.ImageBlob, error) {
	var blob models.ImageBlob
	err := bdb.database.GetContext(ctx, &blob, `
		SELECT key, content_type, data, size, created_at
		FROM image_blobs
		WHERE key = $1`,
		key,
	)
	if err != nil {
		return models.ImageBlob{}, noRows(err)
	}
	return blob, nil
}

func (bdb BlobDatabase) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := bdb.database.ExecContext(ctx, `DELETE FROM image_blobs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge images: %w", err)
	}
	return res.RowsAffected()
}

func normalizeBlob(blob models.ImageBlob) models.ImageBlob {
	blob.Size = len(blob.Data)
	if blob.ContentType == "" {
		blob.ContentType = "application/octet-stream"
	}
	if blob.CreatedAt.IsZero() {
		blob.CreatedAt = time.Now()
	}
	return blob
}
