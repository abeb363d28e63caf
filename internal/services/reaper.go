package services

import (
	"context"
	"time"

	"luxera/internal/logger"
	"luxera/internal/repositories"
)

// Reaper periodically deletes unconsumed reset codes that expired more than
// retention ago. Consumed rows stay as the audit trail.
type Reaper struct {
	resets    repositories.PasswordResetRepository
	interval  time.Duration
	retention time.Duration
	log       *logger.Logger
	now       func() time.Time
}

func NewReaper(resets repositories.PasswordResetRepository, interval, retention time.Duration, log *logger.Logger) *Reaper {
	if log == nil {
		log = logger.Nop()
	}
	return &Reaper{
		resets:    resets,
		interval:  interval,
		retention: retention,
		log:       log.Component("reaper"),
		now:       time.Now,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info().Dur("interval", r.interval).Dur("retention", r.retention).Msg("reaper started")
	for {
		r.Sweep(ctx)
		select {
		case <-ctx.Done():
			r.log.Info().Msg("reaper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (r *Reaper) Sweep(ctx context.Context) int64 {
	cutoff := r.now().Add(-r.retention)
	n, err := r.resets.DeleteExpiredUnused(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			r.log.Error().Err(err).Msg("sweep failed")
		}
		return 0
	}
	if n > 0 {
		r.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("expired reset codes removed")
	}
	return n
}
