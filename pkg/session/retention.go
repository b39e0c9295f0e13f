package session

import (
	"context"
	"time"

	"github.com/adhocore/gronx"

	"github.com/myspotipal/spotipal/pkg/logger"
)

// Sweeper evicts sessions idle longer than the TTL. The cadence is a cron
// expression checked once a minute, so the sweep runs at most once per
// matching minute.
type Sweeper struct {
	store    Store
	ttl      time.Duration
	schedule string
	gron     *gronx.Gronx
}

func NewSweeper(store Store, ttl time.Duration, schedule string) *Sweeper {
	return &Sweeper{
		store:    store,
		ttl:      ttl,
		schedule: schedule,
		gron:     gronx.New(),
	}
}

// Run blocks until the context is cancelled, sweeping whenever the
// schedule is due. A TTL of zero disables eviction entirely.
func (s *Sweeper) Run(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}
	if !s.gron.IsValid(s.schedule) {
		logger.ErrorCF("session", "invalid sweep schedule, retention disabled", map[string]any{
			"schedule": s.schedule,
		})
		return
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			due, err := s.gron.IsDue(s.schedule, now)
			if err != nil || !due {
				continue
			}
			s.Sweep(ctx, now)
		}
	}
}

// Sweep deletes every session idle past the TTL, returning how many were
// evicted.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) int {
	ids, err := s.store.IdleSince(ctx, now.Add(-s.ttl))
	if err != nil {
		logger.WarnCF("session", "retention sweep failed", map[string]any{
			"error": err.Error(),
		})
		return 0
	}

	evicted := 0
	for _, id := range ids {
		if err := s.store.Delete(ctx, id); err != nil {
			logger.WarnCF("session", "failed to evict session", map[string]any{
				"session_id": id,
				"error":      err.Error(),
			})
			continue
		}
		evicted++
	}
	if evicted > 0 {
		logger.InfoCF("session", "evicted idle sessions", map[string]any{
			"count": evicted,
		})
	}
	return evicted
}
