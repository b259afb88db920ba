package datastore

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/chromalens/api/models"
)

// MemoryAnalysisStore is an AnalysisRepository for DB_TYPE=memory and tests
type MemoryAnalysisStore struct {
	mu      sync.RWMutex
	records map[string]models.AnalysisRecord
}

func NewMemoryAnalysisStore() *MemoryAnalysisStore {
	return &MemoryAnalysisStore{records: make(map[string]models.AnalysisRecord)}
}

func (m *MemoryAnalysisStore) Create(_ context.Context, rec models.AnalysisRecord) (models.AnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *MemoryAnalysisStore) Get(_ context.Context, id string) (models.AnalysisRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return models.AnalysisRecord{}, NoRowsError{true, sql.ErrNoRows}
	}
	return rec, nil
}

func (m *MemoryAnalysisStore) GetByFingerprint(_ context.Context, imageHash, fingerprint string) (models.AnalysisRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var found *models.AnalysisRecord
	for _, rec := range m.records {
		if rec.ImageHash != imageHash || rec.Fingerprint != fingerprint {
			continue
		}
		if found == nil || rec.CreatedAt.After(found.CreatedAt) {
			r := rec
			found = &r
		}
	}
	if found == nil {
		return models.AnalysisRecord{}, NoRowsError{true, sql.ErrNoRows}
	}
	return *found, nil
}

func (m *MemoryAnalysisStore) ListRecent(_ context.Context, limit int) ([]models.AnalysisRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := make([]models.AnalysisRecord, 0, len(m.records))
	for _, rec := range m.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit = clampLimit(limit); len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (m *MemoryAnalysisStore) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, rec := range m.records {
		if rec.CreatedAt.Before(cutoff) {
			delete(m.records, id)
			n++
		}
	}
	return n, nil
}

// MemoryBlobStore is a BlobStore kept in process memory
type MemoryBlobStore struct {
	mu     sync.RWMutex
	blobs  map[string]models.ImageBlob
	signer models.BlobURLSigner
}

func NewMemoryBlobStore(signer models.BlobURLSigner) *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string]models.ImageBlob), signer: signer}
}

func (m *MemoryBlobStore) Put(_ context.Context, blob models.ImageBlob) (string, error) {
	blob = normalizeBlob(blob)
	m.mu.Lock()
	if existing, ok := m.blobs[blob.Key]; ok {
		existing.CreatedAt = blob.CreatedAt
		m.blobs[blob.Key] = existing
	} else {
		blob.Data = append([]byte(nil), blob.Data...)
		m.blobs[blob.Key] = blob
	}
	m.mu.Unlock()
	return m.signer.URL(blob.Key)
}

func (m *MemoryBlobStore) Get(_ context.Context, key string) (models.ImageBlob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	if !ok {
		return models.ImageBlob{}, NoRowsError{true, sql.ErrNoRows}
	}
	return blob, nil
}

func (m *MemoryBlobStore) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for key, blob := range m.blobs {
		if blob.CreatedAt.Before(cutoff) {
			delete(m.blobs, key)
			n++
		}
	}
	return n, nil
}
