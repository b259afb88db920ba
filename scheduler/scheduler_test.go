package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chromalens/api/datastore"
	"github.com/chromalens/api/models"
)

func TestPurge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	blobs := datastore.NewMemoryBlobStore(models.BlobURLSigner{Secret: "x", TTL: time.Minute})
	analyses := datastore.NewMemoryAnalysisStore()

	_, err := blobs.Put(ctx, models.ImageBlob{Key: "old", Data: []byte{1}, CreatedAt: now.AddDate(0, 0, -40)})
	require.NoError(t, err)
	_, err = blobs.Put(ctx, models.ImageBlob{Key: "new", Data: []byte{1}, CreatedAt: now.AddDate(0, 0, -1)})
	require.NoError(t, err)
	_, err = analyses.Create(ctx, models.AnalysisRecord{ID: "1", CreatedAt: now.AddDate(0, 0, -31)})
	require.NoError(t, err)
	_, err = analyses.Create(ctx, models.AnalysisRecord{ID: "2", CreatedAt: now})
	require.NoError(t, err)

	s := NewScheduler(blobs, analyses, 30*24*time.Hour)
	s.now = func() time.Time { return now }

	images, records, err := s.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), images)
	assert.Equal(t, int64(1), records)

	_, err = blobs.Get(ctx, "new")
	assert.NoError(t, err)
	_, err = analyses.Get(ctx, "1")
	assert.True(t, datastore.IsNotFound(err))
}

func TestPurge_ZeroRetentionKeepsEverything(t *testing.T) {
	analyses := datastore.NewMemoryAnalysisStore()
	_, err := analyses.Create(context.Background(), models.AnalysisRecord{ID: "1", CreatedAt: time.Unix(0, 0)})
	require.NoError(t, err)

	s := NewScheduler(nil, analyses, 0)
	_, n, err := s.Purge(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(nil, nil, time.Hour)
	s.Start()
	s.Stop()
	s.Stop()
}

func TestStartStop_AfterFirstPurge(t *testing.T) {
	analyses := datastore.NewMemoryAnalysisStore()
	_, err := analyses.Create(context.Background(), models.AnalysisRecord{ID: "1", CreatedAt: time.Unix(0, 0)})
	require.NoError(t, err)

	s := NewScheduler(nil, analyses, time.Hour)
	midnight := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return midnight.Add(-time.Millisecond) }
	s.Start()

	assert.Eventually(t, func() bool {
		_, err := analyses.Get(context.Background(), "1")
		return datastore.IsNotFound(err)
	}, time.Second, 5*time.Millisecond)
	s.Stop()
}
