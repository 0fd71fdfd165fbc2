package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/pwrscale-go/pkg/config"
	"github.com/mash-protocol/pwrscale-go/pkg/log"
)

func TestLoadConfigDefault(t *testing.T) {
	cfg, err := loadConfig(Options{LogLevel: "info"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	require.Len(t, cfg.Devices, 1)
	assert.Equal(t, config.DefaultDeviceID, cfg.Devices[0].ID)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pwrscale.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: warn
  trace_file: /from/file.plog
metrics:
  listen: ":9000"
devices:
  - id: gpu0
`), 0644))

	o := Options{ConfigFile: path, LogLevel: "debug", TraceFile: "/from/flag.plog", MetricsListen: ":9105"}

	cfg, err := loadConfig(o, map[string]bool{"log-level": true})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/from/file.plog", cfg.Log.TraceFile)
	assert.Equal(t, ":9000", cfg.Metrics.Listen)

	cfg, err = loadConfig(o, map[string]bool{"trace-file": true, "metrics-listen": true})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/from/flag.plog", cfg.Log.TraceFile)
	assert.Equal(t, ":9105", cfg.Metrics.Listen)
}

func TestLoadConfigRejectsBadFlag(t *testing.T) {
	_, err := loadConfig(Options{LogLevel: "chatty"}, map[string]bool{"log-level": true})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = newLogger(config.LogConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
}

func TestNewEventLoggerWritesTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.plog")

	events, closeFn, err := newEventLogger(config.LogConfig{TraceFile: path}, discardLogger())
	require.NoError(t, err)

	events.Log(log.Event{DeviceID: "gpu0", Category: log.CategoryDispatch, Dispatch: &log.DispatchEvent{Signal: "busy"}})
	closeFn()

	r, err := log.NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	event, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "gpu0", event.DeviceID)
}

func TestNewEventLoggerWithoutFile(t *testing.T) {
	events, closeFn, err := newEventLogger(config.LogConfig{}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &log.SlogAdapter{}, events)
	closeFn()
}
