package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mash-protocol/pwrscale-go/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	Devices          map[string]*DeviceStats
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// DeviceStats holds statistics for a single device.
type DeviceStats struct {
	Events     int
	Attaches   int
	Detaches   int
	Rollbacks  int
	Dispatches map[string]int
	Ignored    int

	// Policies lists every policy seen on the device, in first-seen order.
	Policies []string

	// LastPolicy is the policy attached at the end of the trace.
	LastPolicy string

	// InitTime is the total time spent in init hooks.
	InitTime time.Duration
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		Devices:          make(map[string]*DeviceStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	dev, ok := s.Devices[event.DeviceID]
	if !ok {
		dev = &DeviceStats{
			Dispatches: make(map[string]int),
			LastPolicy: "none",
		}
		s.Devices[event.DeviceID] = dev
	}
	dev.Events++
	dev.seePolicy(event.Policy)

	switch {
	case event.Transition != nil:
		switch event.Transition.Kind {
		case log.TransitionAttach:
			dev.Attaches++
			dev.InitTime += event.Transition.Duration
		case log.TransitionDetach:
			dev.Detaches++
		case log.TransitionRollback:
			dev.Rollbacks++
			dev.InitTime += event.Transition.Duration
		}
		dev.LastPolicy = event.Transition.To
	case event.Dispatch != nil:
		if event.Dispatch.Handled {
			dev.Dispatches[event.Dispatch.Signal]++
		}
	case event.Property != nil:
		if !event.Property.Applied {
			dev.Ignored++
		}
	case event.Error != nil:
		s.Errors++
	}
}

func (d *DeviceStats) seePolicy(name string) {
	if name == "" {
		return
	}
	for _, p := range d.Policies {
		if p == name {
			return
		}
	}
	d.Policies = append(d.Policies, name)
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== pwrscale Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryTransition, log.CategoryDispatch, log.CategoryProperty, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Devices: %d\n", len(stats.Devices))
	ids := make([]string, 0, len(stats.Devices))
	for id := range stats.Devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		d := stats.Devices[id]
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  [%s] %d events, policy now %s\n", id, d.Events, d.LastPolicy)
		fmt.Fprintf(w, "           Attaches: %d  Detaches: %d  Failed inits: %d\n", d.Attaches, d.Detaches, d.Rollbacks)
		if d.InitTime > 0 {
			fmt.Fprintf(w, "           Init time: %s\n", formatDuration(d.InitTime))
		}
		if len(d.Policies) > 0 {
			fmt.Fprintf(w, "           Policies: %v\n", d.Policies)
		}
		if len(d.Dispatches) > 0 {
			signals := make([]string, 0, len(d.Dispatches))
			for sig := range d.Dispatches {
				signals = append(signals, sig)
			}
			sort.Strings(signals)
			fmt.Fprint(w, "           Dispatches:")
			for _, sig := range signals {
				fmt.Fprintf(w, " %s=%d", sig, d.Dispatches[sig])
			}
			fmt.Fprintln(w)
		}
		if d.Ignored > 0 {
			fmt.Fprintf(w, "           Ignored writes: %d\n", d.Ignored)
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
