package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func decodeJSONLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	return m
}

func newJSONAdapter(buf *bytes.Buffer) *SlogAdapter {
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogAdapter(slog.New(h))
}

func TestSlogAdapterTransition(t *testing.T) {
	var buf bytes.Buffer
	newJSONAdapter(&buf).Log(Event{
		DeviceID:     "gpu0",
		AttachmentID: "a1",
		Category:     CategoryTransition,
		Policy:       "ondemand",
		Transition: &TransitionEvent{
			Kind:     TransitionRollback,
			From:     "ondemand",
			To:       "none",
			Duration: time.Millisecond,
			Reason:   "regulator unavailable",
		},
	})

	m := decodeJSONLine(t, &buf)
	want := map[string]any{
		"level":         "DEBUG",
		"msg":           "pwrscale",
		"device_id":     "gpu0",
		"attachment_id": "a1",
		"category":      "TRANSITION",
		"policy":        "ondemand",
		"kind":          "ROLLBACK",
		"from":          "ondemand",
		"to":            "none",
		"reason":        "regulator unavailable",
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("%s: got %v, want %v", k, m[k], v)
		}
	}
	if _, ok := m["duration"]; !ok {
		t.Error("duration missing")
	}
}

func TestSlogAdapterDispatch(t *testing.T) {
	var buf bytes.Buffer
	newJSONAdapter(&buf).Log(Event{
		DeviceID: "gpu0",
		Category: CategoryDispatch,
		Dispatch: &DispatchEvent{Signal: "idle"},
	})

	m := decodeJSONLine(t, &buf)
	if m["signal"] != "idle" || m["handled"] != false {
		t.Errorf("got signal=%v handled=%v", m["signal"], m["handled"])
	}
	if _, ok := m["attachment_id"]; ok {
		t.Error("attachment_id should be omitted when empty")
	}
}

func TestSlogAdapterPropertyAndError(t *testing.T) {
	var buf bytes.Buffer
	a := newJSONAdapter(&buf)

	a.Log(Event{
		DeviceID: "gpu0",
		Category: CategoryProperty,
		Property: &PropertyEvent{Path: "pwrscale/policy", Value: "performance", Applied: true},
	})
	m := decodeJSONLine(t, &buf)
	if m["path"] != "pwrscale/policy" || m["value"] != "performance" || m["applied"] != true {
		t.Errorf("property attrs: %v", m)
	}

	buf.Reset()
	a.Log(Event{
		DeviceID: "gpu0",
		Category: CategoryError,
		Error:    &ErrorEventData{Message: "boom", Context: "write pwrscale/policy"},
	})
	m = decodeJSONLine(t, &buf)
	if m["error_msg"] != "boom" || m["error_context"] != "write pwrscale/policy" {
		t.Errorf("error attrs: %v", m)
	}
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	NewSlogAdapter(slog.New(h)).Log(Event{DeviceID: "gpu0"})

	if buf.Len() != 0 {
		t.Errorf("expected no output at Info level, got %q", buf.String())
	}
}
