package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/mash-protocol/pwrscale-go/pkg/pwrscale"
)

// runSimulation drives synthetic load: devices alternate between busy and
// idle each tick, and every fourth idle period they sleep and wake.
func runSimulation(ctx context.Context, scales []*pwrscale.Scale, interval time.Duration, logger *slog.Logger) {
	logger.Info("simulation started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var tick int
	for {
		select {
		case <-ctx.Done():
			logger.Info("simulation stopped")
			return
		case <-ticker.C:
			for _, s := range scales {
				simulateTick(s, tick)
			}
			tick++
		}
	}
}

func simulateTick(s *pwrscale.Scale, tick int) {
	if tick%2 == 0 {
		s.Busy()
		return
	}

	s.Idle()
	if tick%8 == 7 {
		s.Sleep()
		s.Wake()
	}
}
