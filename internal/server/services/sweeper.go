package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/dbx"
	"github.com/dmitrijs2005/pulsecity/internal/logging"
	"github.com/dmitrijs2005/pulsecity/internal/server/repositories/repomanager"
)

const sweepBatchSize = 100

// Sweeper deletes the media and rows of posts that were staged but never
// published within the grace period.
type Sweeper struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	grace       time.Duration
	interval    time.Duration
	log         logging.Logger
	now         func() time.Time
}

func NewSweeper(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, grace, interval time.Duration, log logging.Logger) *Sweeper {
	return &Sweeper{
		db:          db,
		repomanager: m,
		store:       store,
		grace:       grace,
		interval:    interval,
		log:         log,
		now:         time.Now,
	}
}

// SweepOnce reclaims one batch of abandoned posts and returns how many rows
// it deleted. A post whose objects cannot all be deleted keeps its row so a
// later sweep retries it.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.grace)
	deleted := 0

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)

		stale, err := repo.LockStale(ctx, cutoff, sweepBatchSize)
		if err != nil {
			return err
		}

	posts:
		for _, p := range stale {
			for _, key := range p.Keys() {
				if err := s.store.Delete(ctx, key); err != nil {
					s.log.Warn(ctx, "delete staged object", "post_id", p.ID, "key", key, "error", err)
					continue posts
				}
			}
			if err := repo.Delete(ctx, p.ID); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error sweeping staged posts: %w", err)
	}

	return deleted, nil
}

// Run sweeps every interval until ctx is done. A non-positive interval
// disables the sweeper.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Warn(ctx, "staging sweeper disabled", "interval", s.interval)
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepOnce(ctx)
			if err != nil {
				s.log.Error(ctx, "sweep failed", "error", err)
				continue
			}
			if n > 0 {
				s.log.Info(ctx, "swept abandoned posts", "count", n)
			}
		}
	}
}
