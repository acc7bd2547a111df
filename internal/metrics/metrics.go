// Package metrics exposes runtime activity as Prometheus collectors.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "reactive"

// Metrics counts tracking and effect activity. A nil *Metrics records nothing.
type Metrics struct {
	tracks       prometheus.Counter
	triggers     prometheus.Counter
	effectRuns   prometheus.Counter
	effectPanics prometheus.Counter
	effectDepth  prometheus.Gauge
}

// New registers the collectors on reg. Collectors already registered under
// the same names are reused, so several runtimes can share one registry.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{}

	var err error
	if m.tracks, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracks_total",
		Help:      "Subscriptions added between an effect and a record key.",
	})); err != nil {
		return nil, err
	}

	if m.triggers, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "triggers_total",
		Help:      "Writes and deletes that looked up subscribers.",
	})); err != nil {
		return nil, err
	}

	if m.effectRuns, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "effect_runs_total",
		Help:      "Effect executions, initial runs included.",
	})); err != nil {
		return nil, err
	}

	if m.effectPanics, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "effect_panics_total",
		Help:      "Panics observed while running effects.",
	})); err != nil {
		return nil, err
	}

	if m.effectDepth, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "effect_depth",
		Help:      "Nesting depth of the most recently started effect.",
	})); err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return c, fmt.Errorf("register metrics: %w", err)
}

func (m *Metrics) Tracked() {
	if m == nil {
		return
	}
	m.tracks.Inc()
}

func (m *Metrics) Triggered() {
	if m == nil {
		return
	}
	m.triggers.Inc()
}

func (m *Metrics) EffectRan(depth int) {
	if m == nil {
		return
	}
	m.effectRuns.Inc()
	m.effectDepth.Set(float64(depth))
}

func (m *Metrics) EffectPanicked() {
	if m == nil {
		return
	}
	m.effectPanics.Inc()
}
