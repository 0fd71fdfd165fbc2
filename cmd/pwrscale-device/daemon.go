package main

import (
	"fmt"
	"log/slog"

	"github.com/mash-protocol/pwrscale-go/cmd/pwrscale-device/interactive"
	"github.com/mash-protocol/pwrscale-go/pkg/config"
	"github.com/mash-protocol/pwrscale-go/pkg/model"
	"github.com/mash-protocol/pwrscale-go/pkg/pwrscale"
)

// daemon owns the managed devices and their policy slots.
type daemon struct {
	logger  *slog.Logger
	targets []interactive.Target
}

// newDaemon brings up every configured device with an empty slot. If any
// device fails, the ones already created are torn down.
func newDaemon(cfg *config.Config, reg *pwrscale.Registry, logger *slog.Logger, opts ...pwrscale.Option) (*daemon, error) {
	d := &daemon{logger: logger}

	for _, dc := range cfg.Devices {
		dev := model.NewDevice(dc.ID)
		s, err := pwrscale.New(dev, reg, opts...)
		if err != nil {
			d.close()
			return nil, fmt.Errorf("device %s: %w", dc.ID, err)
		}
		d.targets = append(d.targets, interactive.Target{Device: dev, Scale: s})
		logger.Info("device ready", "device", dc.ID, "policies", s.AvailablePolicies())
	}
	return d, nil
}

// apply writes each configured policy to its device's policy property.
// Devices are fixed at startup, so entries for unknown devices are skipped.
// Errors are logged per device and the first one is returned.
func (d *daemon) apply(cfg *config.Config) error {
	var first error
	for _, dc := range cfg.Devices {
		if dc.Policy == "" {
			continue
		}

		t, ok := d.target(dc.ID)
		if !ok {
			d.logger.Warn("ignoring policy for unknown device", "device", dc.ID)
			continue
		}

		err := t.Device.Properties().Write(pwrscale.PathPolicy, dc.Policy)
		if err != nil {
			d.logger.Error("failed to apply policy",
				"device", dc.ID,
				"policy", dc.Policy,
				"error", err,
			)
			if first == nil {
				first = fmt.Errorf("device %s: %w", dc.ID, err)
			}
			continue
		}

		if got := t.Scale.PolicyName(); got != dc.Policy {
			d.logger.Warn("configured policy not active",
				"device", dc.ID,
				"policy", dc.Policy,
				"active", got,
			)
		}
	}
	return first
}

func (d *daemon) target(id string) (interactive.Target, bool) {
	for _, t := range d.targets {
		if t.Device.ID() == id {
			return t, true
		}
	}
	return interactive.Target{}, false
}

func (d *daemon) scales() []*pwrscale.Scale {
	out := make([]*pwrscale.Scale, len(d.targets))
	for i, t := range d.targets {
		out[i] = t.Scale
	}
	return out
}

// close detaches every policy and removes the property groups.
func (d *daemon) close() {
	for _, t := range d.targets {
		t.Scale.Close()
	}
}
