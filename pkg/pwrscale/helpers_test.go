package pwrscale

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/pwrscale-go/pkg/log"
	"github.com/mash-protocol/pwrscale-go/pkg/model"
)

// ---------------------------------------------------------------------------
// stubPolicy
// ---------------------------------------------------------------------------

// stubPolicy implements every optional policy interface and records calls
// through testify's mock so ordering can be asserted.
type stubPolicy struct{ mock.Mock }

func (p *stubPolicy) Init(dev Device, s *Scale) error { return p.Called(dev, s).Error(0) }
func (p *stubPolicy) Close(dev Device, s *Scale)      { p.Called(dev, s) }
func (p *stubPolicy) Sleep(dev Device, s *Scale)      { p.Called(dev, s) }
func (p *stubPolicy) Wake(dev Device, s *Scale)       { p.Called(dev, s) }
func (p *stubPolicy) Busy(dev Device, s *Scale)       { p.Called(dev, s) }
func (p *stubPolicy) Idle(dev Device, s *Scale)       { p.Called(dev, s) }

// ---------------------------------------------------------------------------
// recorder
// ---------------------------------------------------------------------------

// recorder builds policies whose hooks append "<policy>.<hook>" to a
// shared, ordered call log.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *recorder) policy(name string) *Policy {
	hook := func(h string) Hook {
		return func(Device, *Scale) { r.record(name + "." + h) }
	}
	return &Policy{
		Name: name,
		Init: func(Device, *Scale) error {
			r.record(name + ".init")
			return nil
		},
		Close: hook("close"),
		Sleep: hook("sleep"),
		Wake:  hook("wake"),
		Busy:  hook("busy"),
		Idle:  hook("idle"),
	}
}

// ---------------------------------------------------------------------------
// eventSink
// ---------------------------------------------------------------------------

type eventSink struct {
	mu     sync.Mutex
	events []log.Event
}

func (e *eventSink) Log(event log.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *eventSink) byCategory(c log.Category) []log.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []log.Event
	for _, ev := range e.events {
		if ev.Category == c {
			out = append(out, ev)
		}
	}
	return out
}

func newTestScale(t *testing.T, reg *Registry, opts ...Option) (*model.Device, *Scale) {
	t.Helper()
	dev := model.NewDevice("gpu0")
	s, err := New(dev, reg, opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return dev, s
}
