package pwrscale

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mash-protocol/pwrscale-go/pkg/model"
)

// NoneName is the reserved keyword meaning "no policy".
const NoneName = "none"

// Device is the device a policy governs. The embedded Locker is the
// device's exclusion lock; Scale holds it across policy Init and Close.
type Device interface {
	sync.Locker

	// ID returns the unique device identifier.
	ID() string

	// Properties returns the root of the device's property tree.
	Properties() *model.Group
}

// Hook is a policy callback for a lifecycle signal.
type Hook func(dev Device, s *Scale)

// Policy describes a power-scaling policy. Every hook is optional.
// A Policy is shared by all devices it is attached to and must not be
// modified after it has been registered; per-device state belongs in
// the Scale (see SetPriv).
type Policy struct {
	// Name is the unique policy name.
	Name string

	// Init is called when the policy is attached, with the device lock held.
	// A non-nil error aborts the attach and leaves the slot empty.
	Init func(dev Device, s *Scale) error

	// Close is called when the policy is detached, with the device lock held.
	Close Hook

	Sleep Hook
	Wake  Hook
	Busy  Hook
	Idle  Hook
}

// String returns the policy name.
func (p *Policy) String() string {
	if p == nil {
		return NoneName
	}
	return p.Name
}

// hook returns the handler for sig, or nil.
func (p *Policy) hook(sig Signal) Hook {
	switch sig {
	case SignalSleep:
		return p.Sleep
	case SignalWake:
		return p.Wake
	case SignalBusy:
		return p.Busy
	case SignalIdle:
		return p.Idle
	default:
		return nil
	}
}

// Optional interfaces recognized by NewPolicy.
type (
	// Initializer is implemented by policies that set up per-device state.
	Initializer interface {
		Init(dev Device, s *Scale) error
	}

	// Closer is implemented by policies that tear down per-device state.
	Closer interface {
		Close(dev Device, s *Scale)
	}

	// Sleeper handles the sleep signal.
	Sleeper interface {
		Sleep(dev Device, s *Scale)
	}

	// Waker handles the wake signal.
	Waker interface {
		Wake(dev Device, s *Scale)
	}

	// BusyHandler handles the busy signal.
	BusyHandler interface {
		Busy(dev Device, s *Scale)
	}

	// IdleHandler handles the idle signal.
	IdleHandler interface {
		Idle(dev Device, s *Scale)
	}
)

// NewPolicy builds a Policy from impl, wiring every optional interface
// impl implements.
func NewPolicy(name string, impl any) *Policy {
	p := &Policy{Name: name}
	if v, ok := impl.(Initializer); ok {
		p.Init = v.Init
	}
	if v, ok := impl.(Closer); ok {
		p.Close = v.Close
	}
	if v, ok := impl.(Sleeper); ok {
		p.Sleep = v.Sleep
	}
	if v, ok := impl.(Waker); ok {
		p.Wake = v.Wake
	}
	if v, ok := impl.(BusyHandler); ok {
		p.Busy = v.Busy
	}
	if v, ok := impl.(IdleHandler); ok {
		p.Idle = v.Idle
	}
	return p
}

// Signal is a device lifecycle signal.
type Signal uint8

const (
	// SignalSleep is raised when the device enters a low-power state.
	SignalSleep Signal = iota
	// SignalWake is raised when the device leaves a low-power state.
	SignalWake
	// SignalBusy is raised when the device starts processing work.
	SignalBusy
	// SignalIdle is raised when the device runs out of work.
	SignalIdle
)

// Signals lists all signals in dispatch order.
var Signals = []Signal{SignalSleep, SignalWake, SignalBusy, SignalIdle}

// String returns the signal name.
func (s Signal) String() string {
	switch s {
	case SignalSleep:
		return "sleep"
	case SignalWake:
		return "wake"
	case SignalBusy:
		return "busy"
	case SignalIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// ParseSignal parses a signal name, ignoring case.
func ParseSignal(name string) (Signal, error) {
	for _, s := range Signals {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSignal, name)
}
