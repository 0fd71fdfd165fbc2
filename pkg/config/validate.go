package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/mash-protocol/pwrscale-go/pkg/model"
)

// FieldError is a validation error for one configuration field.
type FieldError struct {
	// Field is the dotted path to the field (e.g. "devices[1].id").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every field error found in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks cfg and returns a ValidationError listing every problem,
// or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateLog(&cfg.Log)...)
	errs = append(errs, validateMetrics(&cfg.Metrics)...)
	errs = append(errs, validateDevices(cfg.Devices)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateLog(cfg *LogConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown level %q (want debug, info, warn or error)", cfg.Level),
		})
	}

	switch strings.ToLower(cfg.Format) {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "log.format",
			Message: fmt.Sprintf("unknown format %q (want text or json)", cfg.Format),
		})
	}
	return errs
}

func validateMetrics(cfg *MetricsConfig) []FieldError {
	if cfg.Listen == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Listen); err != nil {
		return []FieldError{{
			Field:   "metrics.listen",
			Message: fmt.Sprintf("invalid address %q: %v", cfg.Listen, err),
		}}
	}
	return nil
}

func validateDevices(devices []DeviceConfig) []FieldError {
	var errs []FieldError

	if len(devices) == 0 {
		return []FieldError{{Field: "devices", Message: "at least one device is required"}}
	}

	seen := make(map[string]int, len(devices))
	for i, d := range devices {
		field := fmt.Sprintf("devices[%d]", i)

		if err := model.ValidateName(d.ID); err != nil {
			errs = append(errs, FieldError{Field: field + ".id", Message: err.Error()})
			continue
		}
		if prev, ok := seen[d.ID]; ok {
			errs = append(errs, FieldError{
				Field:   field + ".id",
				Message: fmt.Sprintf("duplicate device %q (also devices[%d])", d.ID, prev),
			})
			continue
		}
		seen[d.ID] = i
	}
	return errs
}
