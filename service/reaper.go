// file: service/reaper.go

package service

import (
	"context"
	"go-shop-api/logger"
	"go-shop-api/repository"
	"time"
)

// Reaper periodically deletes accounts that were never verified within
// the grace window. This is the only enforcement of registration
// expiry: the grace window is anchored to account creation time.
type Reaper struct {
	userRepo repository.IUserRepository
	interval time.Duration
	grace    time.Duration
}

func NewReaper(userRepo repository.IUserRepository, interval, grace time.Duration) *Reaper {
	return &Reaper{
		userRepo: userRepo,
		interval: interval,
		grace:    grace,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled. A failed
// sweep is logged and retried on the next tick; it never stops the
// loop.
func (r *Reaper) Run(ctx context.Context) {
	logger.Log.WithField("interval", r.interval).Info("Account reaper started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Account reaper stopped")
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Reaper) sweep() {
	cutoff := time.Now().Add(-r.grace)

	deleted, err := r.userRepo.DeleteUnverifiedBefore(cutoff)
	if err != nil {
		logger.Log.WithError(err).Error("Reaper sweep failed")
		return
	}

	if deleted > 0 {
		logger.Log.WithField("count", deleted).Info("Deleted unverified users")
	}
}
