// Package config loads the YAML configuration of the pwrscale device daemon
// and watches it for changes.
//
// A configuration names the devices to bring up and the policy each one
// should run:
//
//	log:
//	  level: info
//	  trace_file: /var/log/pwrscale/trace.plog
//	metrics:
//	  listen: ":9105"
//	devices:
//	  - id: gpu0
//	    policy: trace
//	  - id: gpu1
//
// A device without a policy starts with an empty slot. Load applies
// defaults and validates; all validation failures are reported together
// in a ValidationError.
//
// FileWatcher re-runs a callback when the configuration file changes,
// debounced so that editors writing the file in several steps trigger a
// single reload.
package config
