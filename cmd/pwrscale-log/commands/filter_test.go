package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mash-protocol/pwrscale-go/pkg/log"
)

func TestRunFilter(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())
	output := filepath.Join(t.TempDir(), "gpu1.plog")

	var buf bytes.Buffer
	if err := RunFilter(path, output, log.Filter{DeviceID: "gpu1"}, &buf); err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Filtered 1 events") {
		t.Errorf("unexpected summary: %q", buf.String())
	}

	reader, err := log.NewReader(output)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	event, err := reader.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if event.DeviceID != "gpu1" || event.Property == nil {
		t.Errorf("unexpected event: %+v", event)
	}
}

func TestRunFilterMissingInput(t *testing.T) {
	var buf bytes.Buffer
	err := RunFilter(filepath.Join(t.TempDir(), "missing.plog"), filepath.Join(t.TempDir(), "out.plog"), log.Filter{}, &buf)
	if err == nil {
		t.Error("expected error for missing input")
	}
}
