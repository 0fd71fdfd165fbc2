package pwrscale

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mash-protocol/pwrscale-go/pkg/log"
	"github.com/mash-protocol/pwrscale-go/pkg/metrics"
)

// Attach installs p as the device's policy.
//
// If another policy is attached it is closed first, in the same critical
// section, so P.Close always runs before Q.Init. Init runs with the device
// lock held. If Init fails the slot is left empty (not reverted to the
// previous policy) and the returned error wraps ErrAttachFailed and the
// Init error.
func (s *Scale) Attach(p *Policy) error {
	if p == nil {
		return fmt.Errorf("%w: nil policy", ErrInvalidPolicy)
	}

	s.dev.Lock()
	defer s.dev.Unlock()

	if s.closed {
		return ErrClosed
	}

	from := s.detachLocked("swap")

	id := uuid.NewString()
	s.active = p
	s.attachmentID = id

	// Roll back on any Init failure, including a panic.
	initialized := false
	defer func() {
		if !initialized {
			s.clearLocked()
		}
	}()

	start := time.Now()
	var err error
	if p.Init != nil {
		err = p.Init(s.dev, s)
	}
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.RecordAttach(s.dev.ID(), p.Name, metrics.ResultFailed, elapsed)
		s.metrics.SetActivePolicy(s.dev.ID(), NoneName)
		s.emit(log.Event{
			AttachmentID: id,
			Category:     log.CategoryTransition,
			Policy:       p.Name,
			Transition: &log.TransitionEvent{
				Kind:     log.TransitionRollback,
				From:     p.Name,
				To:       NoneName,
				Duration: elapsed,
				Reason:   err.Error(),
			},
		})
		s.logger.Warn("policy init failed",
			"device", s.dev.ID(),
			"policy", p.Name,
			"error", err,
		)
		return fmt.Errorf("%w: %s: %w", ErrAttachFailed, p.Name, err)
	}

	initialized = true
	s.published.Store(&attachment{policy: p, id: id})

	s.metrics.RecordAttach(s.dev.ID(), p.Name, metrics.ResultSuccess, elapsed)
	s.metrics.SetActivePolicy(s.dev.ID(), p.Name)
	s.emit(log.Event{
		AttachmentID: id,
		Category:     log.CategoryTransition,
		Policy:       p.Name,
		Transition: &log.TransitionEvent{
			Kind:     log.TransitionAttach,
			From:     from,
			To:       p.Name,
			Duration: elapsed,
		},
	})
	s.logger.Info("policy attached",
		"device", s.dev.ID(),
		"policy", p.Name,
		"previous", from,
	)
	return nil
}

// Detach closes and removes the attached policy. Detaching an empty slot
// is a no-op. Close hooks cannot fail, so neither can Detach.
func (s *Scale) Detach() {
	s.dev.Lock()
	defer s.dev.Unlock()
	s.detachLocked("detach")
}

// detachLocked empties the slot and returns the name of the policy that
// was attached ("none" if the slot was empty). Must hold the device lock.
func (s *Scale) detachLocked(reason string) string {
	p := s.active
	if p == nil {
		return NoneName
	}
	id := s.attachmentID

	s.published.Store(nil)

	start := time.Now()
	if p.Close != nil {
		p.Close(s.dev, s)
	}
	elapsed := time.Since(start)

	s.clearLocked()

	s.metrics.RecordDetach(s.dev.ID(), p.Name)
	s.metrics.SetActivePolicy(s.dev.ID(), NoneName)
	s.emit(log.Event{
		AttachmentID: id,
		Category:     log.CategoryTransition,
		Policy:       p.Name,
		Transition: &log.TransitionEvent{
			Kind:     log.TransitionDetach,
			From:     p.Name,
			To:       NoneName,
			Duration: elapsed,
			Reason:   reason,
		},
	})
	s.logger.Info("policy detached",
		"device", s.dev.ID(),
		"policy", p.Name,
		"reason", reason,
	)
	return p.Name
}

// clearLocked empties the slot and drops everything the policy left on it.
// Must hold the device lock.
func (s *Scale) clearLocked() {
	s.removeFilesLocked()
	s.active = nil
	s.attachmentID = ""
	s.priv.Store(nil)
}

// Store selects a policy by name, the way a write to pwrscale/policy does.
//
// Surrounding whitespace is ignored. A value starting with "none" detaches.
// Any other value is looked up in the registry; an unknown name is ignored
// and Store returns nil without touching the slot. Errors come only from
// Attach.
func (s *Scale) Store(value string) error {
	_, err := s.store(value)
	return err
}

// store reports whether value resolved to a detach or a registered policy.
func (s *Scale) store(value string) (bool, error) {
	name := strings.TrimSpace(value)

	if strings.HasPrefix(name, NoneName) {
		s.Detach()
		return true, nil
	}

	p, ok := s.registry.Lookup(name)
	if !ok {
		s.logger.Debug("ignoring unknown policy",
			"device", s.dev.ID(),
			"policy", name,
		)
		return false, nil
	}
	return true, s.Attach(p)
}
