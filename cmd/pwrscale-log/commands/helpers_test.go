package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mash-protocol/pwrscale-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.plog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test trace: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

const attachID = "6f1c2a9e-4a7b-4a55-9d1e-0c3c1f0e8b7a"

// sessionEvents is a short gpu0 session: attach, two dispatches, an
// ignored write, a failed swap and its error.
func sessionEvents() []log.Event {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	return []log.Event{
		{Timestamp: ts, DeviceID: "gpu0", AttachmentID: attachID, Category: log.CategoryTransition, Policy: "trace",
			Transition: &log.TransitionEvent{Kind: log.TransitionAttach, From: "none", To: "trace", Duration: 250 * time.Microsecond}},
		{Timestamp: ts.Add(time.Second), DeviceID: "gpu0", AttachmentID: attachID, Category: log.CategoryDispatch, Policy: "trace",
			Dispatch: &log.DispatchEvent{Signal: "busy", Handled: true}},
		{Timestamp: ts.Add(2 * time.Second), DeviceID: "gpu0", AttachmentID: attachID, Category: log.CategoryDispatch, Policy: "trace",
			Dispatch: &log.DispatchEvent{Signal: "sleep"}},
		{Timestamp: ts.Add(3 * time.Second), DeviceID: "gpu0", AttachmentID: attachID, Category: log.CategoryProperty, Policy: "trace",
			Property: &log.PropertyEvent{Path: "pwrscale/policy", Value: "bogus"}},
		{Timestamp: ts.Add(4 * time.Second), DeviceID: "gpu0", AttachmentID: attachID, Category: log.CategoryTransition, Policy: "trace",
			Transition: &log.TransitionEvent{Kind: log.TransitionDetach, From: "trace", To: "none", Reason: "swap"}},
		{Timestamp: ts.Add(4 * time.Second), DeviceID: "gpu0", AttachmentID: "c0ffee00-0000-0000-0000-000000000000", Category: log.CategoryTransition, Policy: "stats",
			Transition: &log.TransitionEvent{Kind: log.TransitionRollback, From: "stats", To: "none", Duration: 1050 * time.Microsecond, Reason: "sensor read failed"}},
		{Timestamp: ts.Add(4 * time.Second), DeviceID: "gpu0", Category: log.CategoryError,
			Error: &log.ErrorEventData{Message: "attach failed: stats: sensor read failed", Context: "write pwrscale/policy"}},
		{Timestamp: ts.Add(5 * time.Second), DeviceID: "gpu1", Category: log.CategoryProperty,
			Property: &log.PropertyEvent{Path: "pwrscale/policy", Value: "none", Applied: true}},
	}
}
