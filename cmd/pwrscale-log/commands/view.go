// Package commands implements the pwrscale-log CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/pwrscale-go/pkg/log"
)

// RunView writes every event matching filter in human-readable form.
func RunView(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [device/attachment] CATEGORY Type policy
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	id := event.DeviceID
	if event.AttachmentID != "" {
		id += "/" + shortID(event.AttachmentID)
	}

	fmt.Fprintf(w, "%s [%s] %-10s %s", ts, id, event.Category.String(), eventType(event))
	if event.Policy != "" {
		fmt.Fprintf(w, " %s", event.Policy)
	}
	fmt.Fprintln(w)

	switch {
	case event.Transition != nil:
		formatTransitionDetails(w, event.Transition)
	case event.Dispatch != nil:
		if !event.Dispatch.Handled {
			fmt.Fprintln(w, "  Handled: no")
		}
	case event.Property != nil:
		formatPropertyDetails(w, event.Property)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

func formatTransitionDetails(w io.Writer, t *log.TransitionEvent) {
	fmt.Fprintf(w, "  %s -> %s\n", t.From, t.To)
	if t.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(t.Duration))
	}
	if t.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", t.Reason)
	}
}

func formatPropertyDetails(w io.Writer, p *log.PropertyEvent) {
	fmt.Fprintf(w, "  %s = %q", p.Path, p.Value)
	if !p.Applied {
		fmt.Fprint(w, " (ignored)")
	}
	fmt.Fprintln(w)
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
}
