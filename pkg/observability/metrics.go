package observability

import (
	"context"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the walkthrough counters.
type Metrics struct {
	StepsAdvanced       *prometheus.CounterVec
	Detours             *prometheus.CounterVec
	CaptureErrors       *prometheus.CounterVec
	PermissionResponses *prometheus.CounterVec
	SessionsCompleted   prometheus.Counter
}

// NewMetrics creates the counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepsAdvanced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walkthrough_steps_advanced_total",
				Help: "Total number of steps presented to users",
			},
			[]string{"step_id"},
		),
		Detours: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walkthrough_detours_total",
				Help: "Total number of times analysis kept a user on a step",
			},
			[]string{"step_id"},
		),
		CaptureErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walkthrough_capture_errors_total",
				Help: "Screen capture failures by kind",
			},
			[]string{"kind"},
		),
		PermissionResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walkthrough_permission_responses_total",
				Help: "Answers to the screen sharing request",
			},
			[]string{"response", "granted"},
		),
		SessionsCompleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "walkthrough_sessions_completed_total",
				Help: "Total number of walkthroughs that reached the last step",
			},
		),
	}
	reg.MustRegister(m.StepsAdvanced, m.Detours, m.CaptureErrors, m.PermissionResponses, m.SessionsCompleted)
	return m
}

// Hooks returns lifecycle hooks that record into the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			m.StepsAdvanced.WithLabelValues(e.StepID).Inc()
		},
		OnDetour: func(_ context.Context, e *domain.StepEvent) {
			m.Detours.WithLabelValues(e.StepID).Inc()
		},
		OnComplete: func(context.Context, *domain.StepEvent) {
			m.SessionsCompleted.Inc()
		},
		OnCaptureError: func(_ context.Context, e *domain.CaptureEvent) {
			m.CaptureErrors.WithLabelValues(e.Kind).Inc()
		},
		OnPermission: func(_ context.Context, e *domain.PermissionEvent) {
			granted := "false"
			if e.Granted {
				granted = "true"
			}
			m.PermissionResponses.WithLabelValues(string(e.Response), granted).Inc()
		},
	}
}
