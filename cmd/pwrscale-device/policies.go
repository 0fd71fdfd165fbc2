package main

import (
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/mash-protocol/pwrscale-go/pkg/model"
	"github.com/mash-protocol/pwrscale-go/pkg/pwrscale"
)

// builtinPolicies returns the policies the daemon offers. Neither changes
// device power levels; they observe the lifecycle signals.
func builtinPolicies(logger *slog.Logger) (*pwrscale.Registry, error) {
	return pwrscale.NewRegistry(
		pwrscale.NewPolicy("trace", &tracePolicy{logger: logger}),
		pwrscale.NewPolicy("stats", statsPolicy{}),
	)
}

// tracePolicy logs every hook it receives.
type tracePolicy struct {
	logger *slog.Logger
}

func (p *tracePolicy) Init(dev pwrscale.Device, _ *pwrscale.Scale) error {
	p.logger.Info("trace: init", "device", dev.ID())
	return nil
}

func (p *tracePolicy) Close(dev pwrscale.Device, _ *pwrscale.Scale) {
	p.logger.Info("trace: close", "device", dev.ID())
}

func (p *tracePolicy) Sleep(dev pwrscale.Device, _ *pwrscale.Scale) {
	p.logger.Info("trace: sleep", "device", dev.ID())
}

func (p *tracePolicy) Wake(dev pwrscale.Device, _ *pwrscale.Scale) {
	p.logger.Info("trace: wake", "device", dev.ID())
}

func (p *tracePolicy) Busy(dev pwrscale.Device, _ *pwrscale.Scale) {
	p.logger.Info("trace: busy", "device", dev.ID())
}

func (p *tracePolicy) Idle(dev pwrscale.Device, _ *pwrscale.Scale) {
	p.logger.Info("trace: idle", "device", dev.ID())
}

// signalCounts is the per-device private data of the stats policy,
// indexed by signal.
type signalCounts [pwrscale.SignalIdle + 1]atomic.Uint64

// statsPolicy counts signals per device and publishes the counters under
// pwrscale/stats. Writing anything to pwrscale/stats/reset zeroes them.
type statsPolicy struct{}

func (statsPolicy) Init(_ pwrscale.Device, s *pwrscale.Scale) error {
	counts := &signalCounts{}

	attrs := make([]*model.Attribute, 0, len(pwrscale.Signals)+1)
	for _, sig := range pwrscale.Signals {
		c := &counts[sig]
		attrs = append(attrs, model.NewAttribute(&model.AttributeMetadata{
			Name:        sig.String(),
			Access:      model.AccessReadOnly,
			Description: "Number of " + sig.String() + " signals since attach or reset",
		}, func() (string, error) {
			return strconv.FormatUint(c.Load(), 10), nil
		}, nil))
	}
	attrs = append(attrs, model.NewAttribute(&model.AttributeMetadata{
		Name:        "reset",
		Access:      model.AccessWrite,
		Description: "Write to zero all counters",
	}, nil, func(string) error {
		for i := range counts {
			counts[i].Store(0)
		}
		return nil
	}))

	if err := s.AddFiles(attrs...); err != nil {
		return err
	}
	s.SetPriv(counts)
	return nil
}

func (statsPolicy) Sleep(_ pwrscale.Device, s *pwrscale.Scale) { count(s, pwrscale.SignalSleep) }
func (statsPolicy) Wake(_ pwrscale.Device, s *pwrscale.Scale)  { count(s, pwrscale.SignalWake) }
func (statsPolicy) Busy(_ pwrscale.Device, s *pwrscale.Scale)  { count(s, pwrscale.SignalBusy) }
func (statsPolicy) Idle(_ pwrscale.Device, s *pwrscale.Scale)  { count(s, pwrscale.SignalIdle) }

func count(s *pwrscale.Scale, sig pwrscale.Signal) {
	if counts, ok := s.Priv().(*signalCounts); ok {
		counts[sig].Add(1)
	}
}
