package scheduler

import (
	"context"
	"time"

	"portfolio-engine/internal/logging"
)

type Task func(ctx context.Context) error

// Every runs task now and then once per interval until ctx is done. Runs
// never overlap: a slow run delays the next tick instead of stacking.
// Errors are logged and do not stop the loop.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	log := logging.For("scheduler")

	runOnce := func() {
		start := time.Now()
		if err := task(ctx); err != nil {
			log.Error("["+name+"] run failed", "err", err)
			return
		}
		log.Info("["+name+"] run done", "seconds", time.Since(start).Seconds())
	}

	runOnce()

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			runOnce()
		}
	}
}
