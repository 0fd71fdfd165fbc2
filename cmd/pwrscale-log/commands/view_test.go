package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mash-protocol/pwrscale-go/pkg/log"
)

func TestFormatEventTransition(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sessionEvents()[0])

	output := buf.String()
	want := []string{
		"2026-01-28T10:00:00.000000Z",
		"[gpu0/6f1c2a9e]",
		"TRANSITION",
		"ATTACH trace",
		"none -> trace",
		"Duration: 250.0µs",
	}
	for _, s := range want {
		if !strings.Contains(output, s) {
			t.Errorf("expected %q in output:\n%s", s, output)
		}
	}
}

func TestFormatEventDispatch(t *testing.T) {
	events := sessionEvents()

	var buf bytes.Buffer
	formatEvent(&buf, events[1])
	if !strings.Contains(buf.String(), "DISPATCH   BUSY trace") {
		t.Errorf("unexpected header:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Handled") {
		t.Error("handled dispatch should not print Handled")
	}

	buf.Reset()
	formatEvent(&buf, events[2])
	if !strings.Contains(buf.String(), "Handled: no") {
		t.Errorf("expected unhandled marker:\n%s", buf.String())
	}
}

func TestFormatEventProperty(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sessionEvents()[3])

	if !strings.Contains(buf.String(), `pwrscale/policy = "bogus" (ignored)`) {
		t.Errorf("unexpected property output:\n%s", buf.String())
	}
}

func TestFormatEventError(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sessionEvents()[6])

	output := buf.String()
	if !strings.Contains(output, "[gpu0]") {
		t.Errorf("expected device without attachment:\n%s", output)
	}
	if !strings.Contains(output, "Context: write pwrscale/policy") {
		t.Errorf("missing context:\n%s", output)
	}
	if !strings.Contains(output, "Message: attach failed: stats: sensor read failed") {
		t.Errorf("missing message:\n%s", output)
	}
}

func TestRunViewFilters(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())

	c := log.CategoryTransition
	var buf bytes.Buffer
	if err := RunView(path, log.Filter{DeviceID: "gpu0", Category: &c}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	if got := strings.Count(buf.String(), "TRANSITION"); got != 3 {
		t.Errorf("got %d transitions, want 3:\n%s", got, buf.String())
	}
	if strings.Contains(buf.String(), "gpu1") {
		t.Error("gpu1 should be filtered out")
	}
}

func TestRunViewMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView("/nonexistent/trace.plog", log.Filter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "500ns"},
		{1500 * time.Nanosecond, "1.5µs"},
		{2500 * time.Microsecond, "2.5ms"},
		{3 * time.Second, "3.00s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
