package pwrscale

import (
	"fmt"
	"strings"

	"github.com/mash-protocol/pwrscale-go/pkg/log"
	"github.com/mash-protocol/pwrscale-go/pkg/model"
)

// Property names inside the pwrscale group.
const (
	PropPolicy        = "policy"
	PropAvailPolicies = "avail_policies"
)

// Property paths relative to the device's property root.
const (
	PathPolicy        = GroupName + "/" + PropPolicy
	PathAvailPolicies = GroupName + "/" + PropAvailPolicies
)

func (s *Scale) propertyAttributes() []*model.Attribute {
	return []*model.Attribute{
		model.NewAttribute(&model.AttributeMetadata{
			Name:        PropPolicy,
			Access:      model.AccessReadWrite,
			Description: "Active power-scaling policy",
			AccessError: ErrIO,
		}, s.showPolicy, s.storePolicy),

		model.NewAttribute(&model.AttributeMetadata{
			Name:        PropAvailPolicies,
			Access:      model.AccessReadOnly,
			Description: "Policies that can be written to policy",
			AccessError: ErrIO,
		}, s.showAvailPolicies, nil),
	}
}

func (s *Scale) showPolicy() (string, error) {
	return s.PolicyName(), nil
}

func (s *Scale) storePolicy(value string) error {
	applied, err := s.store(value)

	s.emit(log.Event{
		AttachmentID: s.AttachmentID(),
		Category:     log.CategoryProperty,
		Policy:       s.PolicyName(),
		Property: &log.PropertyEvent{
			Path:    PathPolicy,
			Value:   strings.TrimSpace(value),
			Applied: applied && err == nil,
		},
	})

	if err != nil {
		s.emit(log.Event{
			Category: log.CategoryError,
			Error: &log.ErrorEventData{
				Message: err.Error(),
				Context: "write " + PathPolicy,
			},
		})
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// AvailablePolicies returns the registered names followed by "none".
func (s *Scale) AvailablePolicies() []string {
	return append(s.registry.Names(), NoneName)
}

func (s *Scale) showAvailPolicies() (string, error) {
	return strings.Join(s.AvailablePolicies(), " "), nil
}

// AddFiles publishes policy specific attributes under pwrscale/<policy>.
// It must be called from the attached policy's Init or Close hook, where
// the device lock is held. Calling it again adds to the same group. If any
// attribute cannot be added, none of them are.
//
// The group is removed automatically on detach and on Init failure.
func (s *Scale) AddFiles(attrs ...*model.Attribute) error {
	if s.active == nil {
		return ErrNoPolicy
	}

	if s.policyGroup != nil {
		return s.policyGroup.AddAttribute(attrs...)
	}

	g := model.NewGroup(s.active.Name)
	if err := g.AddAttribute(attrs...); err != nil {
		return err
	}
	if err := s.group.AddGroup(g); err != nil {
		return fmt.Errorf("add %s/%s: %w", GroupName, s.active.Name, err)
	}
	s.policyGroup = g
	return nil
}

// RemoveFiles removes the group created by AddFiles, if any.
// Like AddFiles it must be called with the device lock held.
func (s *Scale) RemoveFiles() {
	s.removeFilesLocked()
}

func (s *Scale) removeFilesLocked() {
	if s.policyGroup == nil {
		return
	}
	_ = s.group.RemoveGroup(s.policyGroup.Name())
	s.policyGroup = nil
}
