// Package metrics exposes workflow and health observations as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Metrics = (*Prometheus)(nil)

var healthStatuses = []domain.VerificationStatus{
	domain.StatusVerified,
	domain.StatusUnverified,
	domain.StatusCorrupted,
	domain.StatusMissing,
}

// Prometheus implements ports.Metrics on a private registry. When a textfile
// path is set, Flush writes the registry in the node exporter textfile format.
type Prometheus struct {
	registry  *prometheus.Registry
	textfile  string
	workflows *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	rollbacks *prometheus.CounterVec
	health    *prometheus.GaugeVec
}

// New creates the collectors and registers them on a fresh registry.
func New(textfile string) *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		textfile: textfile,
		workflows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jman",
				Name:      "workflows_total",
				Help:      "Number of finished workflows by operation and outcome.",
			}, []string{"op", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "jman",
				Name:      "workflow_duration_seconds",
				Help:      "Wall time of finished workflows.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"op"},
		),
		rollbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jman",
				Name:      "rollbacks_total",
				Help:      "Number of rolled back workflows.",
			}, []string{"op"},
		),
		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "jman",
				Name:      "instance_health",
				Help:      "Latest verification status per instance (1 = current status).",
			}, []string{"id", "status"},
		),
	}
	p.registry.MustRegister(p.workflows, p.duration, p.rollbacks, p.health)
	return p
}

// Registry returns the underlying registry, for gathering in tests or an HTTP handler.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// WorkflowFinished implements ports.Metrics.
func (p *Prometheus) WorkflowFinished(op domain.Operation, outcome domain.Outcome, elapsed time.Duration) {
	p.workflows.WithLabelValues(string(op), string(outcome)).Inc()
	p.duration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
}

// RolledBack implements ports.Metrics.
func (p *Prometheus) RolledBack(op domain.Operation) {
	p.rollbacks.WithLabelValues(string(op)).Inc()
}

// HealthObserved sets the gauge of the observed status to 1 and every other status to 0.
func (p *Prometheus) HealthObserved(instanceID string, status domain.VerificationStatus) {
	for _, s := range healthStatuses {
		v := 0.0
		if s == status {
			v = 1
		}
		p.health.WithLabelValues(instanceID, string(s)).Set(v)
	}
}

// Flush writes the textfile, if configured.
func (p *Prometheus) Flush() error {
	if p.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(p.textfile, p.registry); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write metrics textfile"), "path", p.textfile)
	}
	return nil
}
