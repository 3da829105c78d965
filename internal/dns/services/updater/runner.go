package updater

import (
	"context"
	"time"

	"github.com/pulsedns/pulse-dns/internal/dns/common/log"
)

// Runner drives the engine's refresh loop. The first cycle starts as soon
// as the loop does; after that, each wait is shortened by however long the
// previous cycle took, so cycle starts stay one interval apart. The cycle
// duration fits inside the interval by construction, so a busy cycle never
// pushes the cadence out. Cancellation mid-cycle aborts the cycle cleanly;
// the zone keeps serving its last published generation.
type Runner struct {
	engine *Engine
}

func NewRunner(engine *Engine) *Runner {
	return &Runner{engine: engine}
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	interval := r.engine.Interval()
	log.Info(map[string]any{
		"interval": interval.String(),
	}, "zone refresh loop started")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info(nil, "zone refresh loop stopped")
			return
		case <-timer.C:
		}

		started := r.engine.clock.Now()
		result, err := r.engine.RefreshCycle(ctx)
		if err != nil {
			log.Error(map[string]any{
				"error": err.Error(),
			}, "refresh cycle failed")
		} else {
			log.Debug(map[string]any{
				"result": result.String(),
			}, "refresh cycle finished")
		}

		wait := interval - r.engine.clock.Now().Sub(started)
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
	}
}
