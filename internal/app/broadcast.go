package app

import (
	"context"
	"time"

	internalrooms "github.com/abhijeeth-pa/vredutech/internal/rooms"
)

// runBroadcast fans out every room's transform table at the configured tick
// rate. This is the only path by which transform state reaches other clients:
// individual transform-update events mutate state without triggering a send,
// which keeps fan-out cost bounded by rooms times participants per tick no
// matter how fast clients send.
func (a *App) runBroadcast(ctx context.Context) {
	ticker := time.NewTicker(a.conf.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.broadcastTransforms()
		}
	}
}

func (a *App) broadcastTransforms() {
	a.registry.ForEach(func(room *internalrooms.Room) {
		snapshot := room.TransformSnapshot()
		if len(snapshot) == 0 {
			return
		}

		room.BroadcastLossy("transforms", snapshot)
	})
}
