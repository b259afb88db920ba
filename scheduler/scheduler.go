package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/chromalens/api/datastore"
)

// Scheduler purges stored images and analyses past their retention window once a day
type Scheduler struct {
	Blobs     datastore.BlobStore
	Analyses  datastore.AnalysisRepository
	Retention time.Duration

	now      func() time.Time
	mu       sync.Mutex
	timer    *time.Timer
	done     chan struct{}
	stopOnce sync.Once
}

func NewScheduler(blobs datastore.BlobStore, analyses datastore.AnalysisRepository, retention time.Duration) *Scheduler {
	return &Scheduler{
		Blobs:     blobs,
		Analyses:  analyses,
		Retention: retention,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Start begins the scheduler to run at midnight every day
func (s *Scheduler) Start() {
	now := s.now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	durationUntilMidnight := nextMidnight.Sub(now)

	log.Printf("Scheduler started. Next retention purge in %v", durationUntilMidnight)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer = time.AfterFunc(durationUntilMidnight, s.loop)
}

// loop purges once, then every 24 hours until Stop. The ticker never leaves
// this goroutine.
func (s *Scheduler) loop() {
	select {
	case <-s.done:
		return
	default:
	}
	s.Purge(context.Background())

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Purge(context.Background())
		case <-s.done:
			return
		}
	}
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		if s.timer != nil {
			s.timer.Stop()
		}
		s.mu.Unlock()
		close(s.done)
		log.Println("Scheduler stopped")
	})
}

// Purge deletes images and analyses created before now minus Retention.
// A zero Retention keeps everything.
func (s *Scheduler) Purge(ctx context.Context) (int64, int64, error) {
	if s.Retention <= 0 {
		return 0, 0, nil
	}
	cutoff := s.now().Add(-s.Retention)
	log.Printf("Purging images and analyses created before %s...", cutoff.Format(time.RFC3339))

	var images, analyses int64
	var err error
	if s.Blobs != nil {
		if images, err = s.Blobs.PurgeOlderThan(ctx, cutoff); err != nil {
			log.Printf("Error purging images: %v", err)
			return 0, 0, err
		}
	}
	if s.Analyses != nil {
		if analyses, err = s.Analyses.PurgeOlderThan(ctx, cutoff); err != nil {
			log.Printf("Error purging analyses: %v", err)
			return images, 0, err
		}
	}

	log.Printf("Retention purge removed %d images and %d analyses", images, analyses)
	return images, analyses, nil
}
