// Package metrics provides Prometheus metrics for power-scaling policies.
//
// # Metrics
//
//   - pwrscale_attach_total: Attach attempts by device, policy and result
//   - pwrscale_detach_total: Detaches by device and policy
//   - pwrscale_init_duration_seconds: Time spent in policy init hooks
//   - pwrscale_dispatch_total: Lifecycle signals routed to a policy
//   - pwrscale_active_policy: 1 for the policy attached to a device ("none" when empty)
//
// # Usage
//
//	registry := prometheus.NewRegistry()
//	m := metrics.New(&metrics.Config{Namespace: "pwrscale"}, registry)
//
//	scale, err := pwrscale.New(dev, reg, pwrscale.WithMetrics(m))
//
// A nil *Metrics is valid and records nothing, so components can hold an
// optional collector without nil checks.
package metrics
