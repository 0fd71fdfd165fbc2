package pwrscale

import (
	"github.com/mash-protocol/pwrscale-go/pkg/log"
)

// Sleep notifies the attached policy that the device is going to sleep.
func (s *Scale) Sleep() { s.Dispatch(SignalSleep) }

// Wake notifies the attached policy that the device woke up.
func (s *Scale) Wake() { s.Dispatch(SignalWake) }

// Busy notifies the attached policy that the device became busy.
func (s *Scale) Busy() { s.Dispatch(SignalBusy) }

// Idle notifies the attached policy that the device went idle.
func (s *Scale) Idle() { s.Dispatch(SignalIdle) }

// Dispatch runs the attached policy's hook for sig and reports whether a
// hook ran. It does not take the device lock: the policy is read from an
// atomic snapshot, so a concurrent swap is observed either entirely before
// or entirely after.
func (s *Scale) Dispatch(sig Signal) bool {
	a := s.published.Load()
	if a == nil {
		return false
	}

	hook := a.policy.hook(sig)
	if hook != nil {
		hook(s.dev, s)
		s.metrics.RecordDispatch(s.dev.ID(), a.policy.Name, sig.String())
	}

	s.emit(log.Event{
		AttachmentID: a.id,
		Category:     log.CategoryDispatch,
		Policy:       a.policy.Name,
		Dispatch: &log.DispatchEvent{
			Signal:  sig.String(),
			Handled: hook != nil,
		},
	})
	return hook != nil
}
