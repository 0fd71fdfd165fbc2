package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration.
type Config struct {
	Log     LogConfig      `yaml:"log"`
	Metrics MetricsConfig  `yaml:"metrics"`
	Devices []DeviceConfig `yaml:"devices"`
}

// LogConfig controls operational logging and event tracing.
type LogConfig struct {
	// Level is the slog level: debug, info, warn or error (default info).
	Level string `yaml:"level"`

	// Format is the operational log format: text or json (default text).
	Format string `yaml:"format"`

	// TraceFile is the CBOR trace file. Tracing is off when empty.
	TraceFile string `yaml:"trace_file"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is the address to serve /metrics on. Disabled when empty.
	Listen string `yaml:"listen"`

	// Namespace is the metric namespace (default "pwrscale").
	Namespace string `yaml:"namespace"`
}

// DeviceConfig describes one managed device.
type DeviceConfig struct {
	// ID is the device identifier and the name of its property root.
	ID string `yaml:"id"`

	// Policy is written to the device's pwrscale/policy property at
	// startup and on reload. Empty leaves the slot as it is.
	Policy string `yaml:"policy"`
}

// Default values.
const (
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultMetricsNamespace = "pwrscale"
	DefaultDeviceID         = "gpu0"
)

// Default returns the configuration used when no file is given: a single
// device with an empty slot.
func Default() *Config {
	cfg := &Config{
		Devices: []DeviceConfig{{ID: DefaultDeviceID}},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// Parse decodes, defaults and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Device returns the configuration of the device with the given ID.
func (c *Config) Device(id string) (DeviceConfig, bool) {
	for _, d := range c.Devices {
		if d.ID == id {
			return d, true
		}
	}
	return DeviceConfig{}, false
}
