package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Attach results.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// Config controls metric naming.
type Config struct {
	// Namespace is the metric namespace (default "pwrscale").
	Namespace string

	// Subsystem is the optional metric subsystem.
	Subsystem string

	// InitDurationBuckets are the histogram buckets for init hooks, in seconds.
	InitDurationBuckets []float64
}

// Metrics tracks policy slot activity.
type Metrics struct {
	attachTotal   *prometheus.CounterVec
	detachTotal   *prometheus.CounterVec
	initDuration  *prometheus.HistogramVec
	dispatchTotal *prometheus.CounterVec
	activePolicy  *prometheus.GaugeVec
}

// New creates and registers the metrics with the provided registerer.
// If reg is nil, the default Prometheus registerer is used.
func New(cfg *Config, reg prometheus.Registerer) *Metrics {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "pwrscale"
	}
	if len(cfg.InitDurationBuckets) == 0 {
		// Init hooks run under the device lock and should be short (1µs - 1s).
		cfg.InitDurationBuckets = prometheus.ExponentialBuckets(0.000001, 4, 11)
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		attachTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "attach_total",
				Help:      "Total number of policy attach attempts",
			},
			[]string{"device", "policy", "result"},
		),

		detachTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "detach_total",
				Help:      "Total number of policy detaches",
			},
			[]string{"device", "policy"},
		),

		initDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "init_duration_seconds",
				Help:      "Duration of policy init hooks in seconds",
				Buckets:   cfg.InitDurationBuckets,
			},
			[]string{"policy"},
		),

		dispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "dispatch_total",
				Help:      "Total number of lifecycle signals routed to a policy",
			},
			[]string{"device", "policy", "signal"},
		),

		activePolicy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "active_policy",
				Help:      "Policy currently attached to a device (1 = active)",
			},
			[]string{"device", "policy"},
		),
	}

	reg.MustRegister(
		m.attachTotal,
		m.detachTotal,
		m.initDuration,
		m.dispatchTotal,
		m.activePolicy,
	)

	return m
}

// RecordAttach records an attach attempt and how long the init hook ran.
func (m *Metrics) RecordAttach(device, policy, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.attachTotal.WithLabelValues(device, policy, result).Inc()
	m.initDuration.WithLabelValues(policy).Observe(duration.Seconds())
}

// RecordDetach records a detach of policy from device.
func (m *Metrics) RecordDetach(device, policy string) {
	if m == nil {
		return
	}
	m.detachTotal.WithLabelValues(device, policy).Inc()
}

// RecordDispatch records a signal delivered to a policy hook.
func (m *Metrics) RecordDispatch(device, policy, signal string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(device, policy, signal).Inc()
}

// SetActivePolicy marks policy as the one attached to device, clearing
// the previous series for that device.
func (m *Metrics) SetActivePolicy(device, policy string) {
	if m == nil {
		return
	}
	m.activePolicy.DeletePartialMatch(prometheus.Labels{"device": device})
	m.activePolicy.WithLabelValues(device, policy).Set(1)
}

// ForgetDevice removes the active-policy series of a torn down device.
func (m *Metrics) ForgetDevice(device string) {
	if m == nil {
		return
	}
	m.activePolicy.DeletePartialMatch(prometheus.Labels{"device": device})
}
