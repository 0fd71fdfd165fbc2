package log

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.plog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test trace: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var out []Event
	for {
		event, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, event)
	}
}

func testEvents(base time.Time) []Event {
	return []Event{
		{Timestamp: base, DeviceID: "gpu0", AttachmentID: "a1", Category: CategoryTransition, Policy: "ondemand",
			Transition: &TransitionEvent{Kind: TransitionAttach, From: "none", To: "ondemand"}},
		{Timestamp: base.Add(time.Second), DeviceID: "gpu0", AttachmentID: "a1", Category: CategoryDispatch, Policy: "ondemand",
			Dispatch: &DispatchEvent{Signal: "busy", Handled: true}},
		{Timestamp: base.Add(2 * time.Second), DeviceID: "gpu1", AttachmentID: "b1", Category: CategoryTransition, Policy: "performance",
			Transition: &TransitionEvent{Kind: TransitionAttach, From: "none", To: "performance"}},
		{Timestamp: base.Add(3 * time.Second), DeviceID: "gpu0", Category: CategoryProperty,
			Property: &PropertyEvent{Path: "pwrscale/policy", Value: "bogus"}},
	}
}

func TestReaderIteratesEvents(t *testing.T) {
	path := createTestLogFile(t, testEvents(time.Now()))

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	got := readAll(t, r)
	if len(got) != 4 {
		t.Fatalf("got %d events, want 4", len(got))
	}
	if got[2].DeviceID != "gpu1" {
		t.Errorf("order: got %q at index 2", got[2].DeviceID)
	}
}

func TestReaderFilter(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, testEvents(base))

	dispatch := CategoryDispatch
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"none", Filter{}, 4},
		{"device", Filter{DeviceID: "gpu0"}, 3},
		{"attachment", Filter{AttachmentID: "a1"}, 2},
		{"policy", Filter{Policy: "performance"}, 1},
		{"category", Filter{Category: &dispatch}, 1},
		{"time start", Filter{TimeStart: &start}, 3},
		{"time end is exclusive", Filter{TimeEnd: &end}, 3},
		{"window", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"combined", Filter{DeviceID: "gpu0", Policy: "ondemand", Category: &dispatch}, 1},
		{"no match", Filter{DeviceID: "gpu9"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer r.Close()

			if got := len(readAll(t, r)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.plog")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReaderEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.plog")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestReaderCorruptTail(t *testing.T) {
	path := createTestLogFile(t, testEvents(time.Now())[:1])

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.Write([]byte{0xa5, 0x01})
	f.Close()

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	if _, err := r.Next(); err != nil {
		t.Fatalf("first event: %v", err)
	}
	if _, err := r.Next(); err == nil || err == io.EOF {
		t.Errorf("expected decode error, got %v", err)
	}
}
