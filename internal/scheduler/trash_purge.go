package scheduler

import (
	"context"
	"time"

	"github.com/ldrouet/marque/internal/domain"
	"github.com/ldrouet/marque/internal/logger"
	"github.com/ldrouet/marque/internal/store"
)

const (
	// DefaultPurgeThreshold is how long a bookmark sits in trash before the
	// purger permanently deletes it.
	DefaultPurgeThreshold = 30 * 24 * time.Hour
)

// TrashPurger periodically sweeps loaded working sets and permanently
// deletes bookmarks that have been in trash longer than the threshold.
type TrashPurger struct {
	manager   *store.Manager
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// NewTrashPurger creates a trash purger. A zero threshold falls back to
// DefaultPurgeThreshold.
func NewTrashPurger(manager *store.Manager, log logger.Logger, interval, threshold time.Duration) *TrashPurger {
	if threshold == 0 {
		threshold = DefaultPurgeThreshold
	}

	return &TrashPurger{
		manager:   manager,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic purge process.
func (p *TrashPurger) Start(ctx context.Context) error {
	// Run immediately on start
	if err := p.Purge(ctx); err != nil {
		p.logger.Warn("initial trash purge failed", logger.Error(err))
	}

	ticker := time.NewTicker(p.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := p.Purge(ctx); err != nil {
					p.logger.Error("trash purge failed", logger.Error(err))
				}
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the purger.
func (p *TrashPurger) Stop() {
	close(p.stopCh)
}

// Purge sweeps every loaded store once.
func (p *TrashPurger) Purge(ctx context.Context) error {
	now := time.Now()
	deleted := 0

	for _, s := range p.manager.Loaded() {
		for _, b := range s.Bookmarks() {
			if b.Status != domain.StatusTrash || b.TrashedAt == nil {
				continue
			}

			trashedFor := now.Sub(*b.TrashedAt)
			if trashedFor < p.threshold {
				continue
			}

			if err := s.PermanentlyDelete(ctx, b.ID); err != nil {
				p.logger.Warn("failed to purge trashed bookmark",
					logger.String("bookmark_id", b.ID),
					logger.Error(err))
				continue
			}

			p.logger.Info("purged trashed bookmark",
				logger.String("bookmark_id", b.ID),
				logger.String("user_id", s.UserID()),
				logger.String("trashed_for", trashedFor.String()))
			deleted++
		}
	}

	if deleted > 0 {
		p.logger.Info("trash purge completed", logger.Int("deleted", deleted))
	} else {
		p.logger.Debug("no trashed bookmarks to purge")
	}
	return nil
}
