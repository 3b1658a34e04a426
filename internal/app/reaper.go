package app

import (
	"context"
	"fmt"
	"time"

	internalrooms "github.com/abhijeeth-pa/vredutech/internal/rooms"
)

// runReaper periodically evicts participants that stopped sending transform
// updates. The transport may not signal disconnection reliably, so this sweep
// is the recovery path for crashed clients and network partitions.
func (a *App) runReaper(ctx context.Context) {
	ticker := time.NewTicker(a.conf.ReapEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.reapStale(ctx, time.Now())
		}
	}
}

func (a *App) reapStale(ctx context.Context, now time.Time) {
	cutoff := now.Add(-a.conf.StaleAfter)

	a.registry.ForEach(func(room *internalrooms.Room) {
		for _, id := range room.Stale(cutoff) {
			if a.leave(ctx, room, id) {
				a.logger.Info(fmt.Sprintf("participant %s removed from %s (stale)", id, room.ID))
			}
		}
	})
}
