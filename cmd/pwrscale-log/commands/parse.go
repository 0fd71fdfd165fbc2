package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/mash-protocol/pwrscale-go/pkg/log"
)

// ParseCategoryFlag parses a category name as accepted on the command line.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "transition":
		return log.CategoryTransition, nil
	case "dispatch":
		return log.CategoryDispatch, nil
	case "property":
		return log.CategoryProperty, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (use transition, dispatch, property, or error)", s)
	}
}

// FilterOptions are the raw filter flags shared by view, export and filter.
type FilterOptions struct {
	DeviceID     string
	AttachmentID string
	Policy       string
	Category     string
	TimeStart    string
	TimeEnd      string
}

// Build converts the options into a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{
		DeviceID:     o.DeviceID,
		AttachmentID: o.AttachmentID,
		Policy:       o.Policy,
	}

	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

// shortID returns the first 8 characters of an attachment ID.
func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// eventType returns a short label for the payload of event.
func eventType(event log.Event) string {
	switch {
	case event.Transition != nil:
		return event.Transition.Kind.String()
	case event.Dispatch != nil:
		return strings.ToUpper(event.Dispatch.Signal)
	case event.Property != nil:
		return "WRITE"
	case event.Error != nil:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
