package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Log.TraceFile)
	assert.Empty(t, cfg.Metrics.Listen)
	assert.Equal(t, "pwrscale", cfg.Metrics.Namespace)
	assert.Equal(t, []DeviceConfig{{ID: "gpu0"}}, cfg.Devices)
	assert.NoError(t, Validate(cfg))
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
log:
  level: debug
  format: json
  trace_file: /tmp/trace.plog
metrics:
  listen: ":9105"
devices:
  - id: gpu0
    policy: trace
  - id: gpu1
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/trace.plog", cfg.Log.TraceFile)
	assert.Equal(t, ":9105", cfg.Metrics.Listen)
	assert.Equal(t, "pwrscale", cfg.Metrics.Namespace)
	require.Len(t, cfg.Devices, 2)
	assert.Equal(t, "trace", cfg.Devices[0].Policy)
	assert.Empty(t, cfg.Devices[1].Policy)

	d, ok := cfg.Device("gpu1")
	assert.True(t, ok)
	assert.Equal(t, "gpu1", d.ID)
	_, ok = cfg.Device("gpu9")
	assert.False(t, ok)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("devices: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse configuration")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		fields []string
	}{
		{
			name:   "no devices",
			yaml:   "log: {level: info}",
			fields: []string{"devices"},
		},
		{
			name:   "unknown level",
			yaml:   "log: {level: verbose}\ndevices: [{id: gpu0}]",
			fields: []string{"log.level"},
		},
		{
			name:   "unknown format",
			yaml:   "log: {format: xml}\ndevices: [{id: gpu0}]",
			fields: []string{"log.format"},
		},
		{
			name:   "bad listen address",
			yaml:   "metrics: {listen: localhost}\ndevices: [{id: gpu0}]",
			fields: []string{"metrics.listen"},
		},
		{
			name:   "empty and duplicate ids",
			yaml:   "devices: [{id: gpu0}, {id: ''}, {id: gpu0}, {id: 'a/b'}]",
			fields: []string{"devices[1].id", "devices[2].id", "devices[3].id"},
		},
		{
			name:   "collects everything",
			yaml:   "log: {level: loud}\nmetrics: {listen: nope}",
			fields: []string{"log.level", "metrics.listen", "devices"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)

			var verr ValidationError
			require.True(t, errors.As(err, &verr), "error %v is not a ValidationError", err)

			var fields []string
			for _, fe := range verr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "configuration validation failed", ValidationError{}.Error())

	one := ValidationError{Errors: []FieldError{{Field: "log.level", Message: "bad"}}}
	assert.Equal(t, "configuration validation failed: log.level: bad", one.Error())

	two := ValidationError{Errors: []FieldError{
		{Field: "a", Message: "x"},
		{Field: "b", Message: "y"},
	}}
	assert.Equal(t, "configuration validation failed with 2 errors:\n  - a: x\n  - b: y\n", two.Error())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pwrscale.yaml")
	require.NoError(t, os.WriteFile(path, []byte("devices:\n  - id: gpu0\n    policy: trace\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "trace", cfg.Devices[0].Policy)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pwrscale.yaml")
	require.NoError(t, os.WriteFile(path, []byte("devices: []\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.ErrorAs(t, err, &ValidationError{})
}
