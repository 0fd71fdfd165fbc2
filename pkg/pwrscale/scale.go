package pwrscale

import (
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mash-protocol/pwrscale-go/pkg/log"
	"github.com/mash-protocol/pwrscale-go/pkg/metrics"
	"github.com/mash-protocol/pwrscale-go/pkg/model"
)

// GroupName is the name of the property group registered on the device.
const GroupName = "pwrscale"

// Scale is the per-device policy slot.
type Scale struct {
	dev      Device
	registry *Registry
	group    *model.Group

	// Guarded by the device lock.
	active       *Policy
	attachmentID string
	policyGroup  *model.Group
	closed       bool

	// published is the dispatch snapshot of active. It is set only after a
	// successful Init and cleared before Close runs.
	published atomic.Pointer[attachment]

	priv atomic.Pointer[privData]

	logger  *slog.Logger
	events  log.Logger
	metrics *metrics.Metrics
}

type attachment struct {
	policy *Policy
	id     string
}

type privData struct {
	v any
}

// Option configures a Scale.
type Option func(*Scale)

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scale) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventLogger sets the trace event logger.
func WithEventLogger(logger log.Logger) Option {
	return func(s *Scale) {
		if logger != nil {
			s.events = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scale) {
		s.metrics = m
	}
}

// New creates the policy slot of dev and registers its property group
// (pwrscale/policy, pwrscale/avail_policies) on the device's property tree.
// The slot starts empty. A property registration failure is returned and
// leaves the device unchanged.
func New(dev Device, registry *Registry, opts ...Option) (*Scale, error) {
	s := &Scale{
		dev:      dev,
		registry: registry,
		group:    model.NewGroup(GroupName),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		events:   log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.group.AddAttribute(s.propertyAttributes()...); err != nil {
		return nil, err
	}
	if err := dev.Properties().AddGroup(s.group); err != nil {
		return nil, err
	}

	s.metrics.SetActivePolicy(dev.ID(), NoneName)
	s.logger.Debug("pwrscale initialized",
		"device", dev.ID(),
		"policies", registry.Names(),
	)
	return s, nil
}

// Close detaches the active policy and removes the property group.
// It is safe to call Close multiple times.
func (s *Scale) Close() {
	s.dev.Lock()
	if s.closed {
		s.dev.Unlock()
		return
	}
	s.detachLocked("close")
	s.closed = true
	s.dev.Unlock()

	_ = s.dev.Properties().RemoveGroup(GroupName)
	s.metrics.ForgetDevice(s.dev.ID())
	s.logger.Debug("pwrscale closed", "device", s.dev.ID())
}

// Device returns the device the slot belongs to.
func (s *Scale) Device() Device {
	return s.dev
}

// Registry returns the registry names are resolved against.
func (s *Scale) Registry() *Registry {
	return s.registry
}

// Group returns the "pwrscale" property group.
func (s *Scale) Group() *model.Group {
	return s.group
}

// Active returns the attached policy, or nil.
// It reads the dispatch snapshot and does not wait for a running
// transition; during a swap it reports nil.
func (s *Scale) Active() *Policy {
	if a := s.published.Load(); a != nil {
		return a.policy
	}
	return nil
}

// PolicyName returns the attached policy's name, or "none".
func (s *Scale) PolicyName() string {
	return s.Active().String()
}

// AttachmentID returns the ID of the current attachment, or "".
func (s *Scale) AttachmentID() string {
	if a := s.published.Load(); a != nil {
		return a.id
	}
	return ""
}

// Priv returns the private data the attached policy stored with SetPriv.
//
// The data belongs to the slot, not to one attachment. A dispatch hook that
// is still running when another policy is attached sees the new policy's
// data, so hooks must type-check the value they get.
func (s *Scale) Priv() any {
	if p := s.priv.Load(); p != nil {
		return p.v
	}
	return nil
}

// SetPriv stores per-device private data for the attached policy.
// It is cleared automatically when the policy is detached or its Init fails.
func (s *Scale) SetPriv(v any) {
	s.priv.Store(&privData{v: v})
}

func (s *Scale) emit(event log.Event) {
	event.Timestamp = time.Now()
	event.DeviceID = s.dev.ID()
	s.events.Log(event)
}
