// Package scheduler runs periodic background imports from the source blog.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrivero/blogsync/internal/config"
	"github.com/mrivero/blogsync/internal/importer"
)

// WordPressSyncScheduler triggers periodic imports from the source
// blog. At most one import runs at a time: the pipeline assumes
// single-writer access to the destination store, so an overlapping
// trigger is skipped, not queued.
type WordPressSyncScheduler struct {
	importer *importer.Importer
	cfg      config.WordPress
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSyncing  bool
	cancelFunc context.CancelFunc
}

// NewWordPressSyncScheduler creates a new scheduler instance.
func NewWordPressSyncScheduler(imp *importer.Importer, wpCfg config.WordPress, schedule string) *WordPressSyncScheduler {
	return &WordPressSyncScheduler{
		importer: imp,
		cfg:      wpCfg,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *WordPressSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.cfg.URL == "" {
		log.Printf("WordPress sync scheduler: source URL not configured, skipping")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("WordPress sync scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running import.
func (s *WordPressSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("WordPress sync scheduler: stopped")
}

// RunNow triggers an immediate import.
func (s *WordPressSyncScheduler) RunNow() {
	go s.runSync()
}

// IsRunning returns whether the scheduler is active.
func (s *WordPressSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing returns whether an import is currently in progress.
func (s *WordPressSyncScheduler) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// GetNextRunTime returns when the next import will occur.
func (s *WordPressSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *WordPressSyncScheduler) runSync() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		log.Printf("WordPress sync: skipped (already syncing)")
		return
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	log.Printf("WordPress sync: importing %d page(s) starting at page %d", s.cfg.Pages, s.cfg.FromPage)

	result, err := s.importer.Run(context.Background(), s.cfg.FromPage, s.cfg.Pages)
	if err != nil {
		log.Printf("WordPress sync: failed: %v (%d posts synced before the failure)", err, result.PostsSynced)
		return
	}

	log.Printf("WordPress sync: done: %d pages, %d posts synced, %d failed, %d records skipped",
		result.PagesProcessed, result.PostsSynced, result.PostsFailed, result.RecordsSkipped)
}
