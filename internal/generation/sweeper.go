package generation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"interior-design-backend/internal/apperr"
	"interior-design-backend/internal/logger"
	"interior-design-backend/internal/models"
)

// AbandonedMessage is recorded on designs the sweeper fails.
const AbandonedMessage = "generation abandoned"

const sweepLockName = "design-sweeper"

type StaleStore interface {
	ListStaleDesigns(ctx context.Context, cutoff time.Time, limit int) ([]models.Design, error)
	MarkDesignFailed(ctx context.Context, designID uuid.UUID, processingTime int64, message string) error
}

// Locker serialises sweeps across replicas.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(context.Context) error, acquired bool, err error)
}

// Sweeper fails designs that have sat in PENDING or PROCESSING longer than staleAfter. It recovers
// rows whose task died with the process or whose failure write was lost.
type Sweeper struct {
	store      StaleStore
	locker     Locker
	log        *logger.Logger
	staleAfter time.Duration
	batchSize  int
	now        func() time.Time
}

// NewSweeper accepts a nil locker for single-instance deployments.
func NewSweeper(store StaleStore, locker Locker, log *logger.Logger, staleAfter time.Duration) *Sweeper {
	return &Sweeper{
		store:      store,
		locker:     locker,
		log:        log.With("component", "sweeper"),
		staleAfter: staleAfter,
		batchSize:  100,
		now:        time.Now,
	}
}

// Sweep runs one reconciliation pass and reports how many designs it failed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	if s.locker != nil {
		release, acquired, err := s.locker.Acquire(ctx, sweepLockName, s.staleAfter)
		if err != nil {
			return 0, err
		}
		if !acquired {
			s.log.Debug("sweep already running elsewhere")
			return 0, nil
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn("failed to release sweep lock", "error", err)
			}
		}()
	}

	cutoff := s.now().Add(-s.staleAfter)
	swept := 0
	for {
		stale, err := s.store.ListStaleDesigns(ctx, cutoff, s.batchSize)
		if err != nil {
			return swept, err
		}
		progressed := false
		for _, d := range stale {
			err := s.store.MarkDesignFailed(ctx, d.ID, s.now().Sub(d.CreatedAt).Milliseconds(), AbandonedMessage)
			switch {
			case err == nil:
				swept++
				progressed = true
				s.log.Warn("failed abandoned design", "design_id", d.ID, "status", d.Status, "last_update", d.UpdatedAt)
			case apperr.IsKind(err, apperr.KindInvalidTransition), apperr.IsKind(err, apperr.KindNotFound):
				// resolved or deleted since it was listed
			default:
				return swept, err
			}
		}
		if len(stale) < s.batchSize || !progressed {
			break
		}
	}
	if swept > 0 {
		s.log.Info("sweep finished", "swept", swept, "cutoff", cutoff)
	}
	return swept, nil
}

// Run sweeps immediately and then every interval until ctx ends.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
