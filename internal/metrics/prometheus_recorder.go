package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "orgbuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration    *prom.HistogramVec
	stageResults     *prom.CounterVec
	edges            *prom.CounterVec
	skipped          prom.Counter
	collisions       prom.Counter
	executorDuration prom.Histogram
	executorExits    *prom.CounterVec
	runDuration      prom.Histogram
	runOutcomes      *prom.CounterVec
	lastRun          prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of run stages (prepare, generate, execute)",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		edges: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "graph_edges_total",
			Help:      "Build edges emitted into generated graphs, by rule",
		}, []string{"rule"}),
		skipped: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "passthrough_skipped_total",
			Help:      "Pass-through documents dropped because a converted document claimed their output",
		}),
		collisions: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "primary_collisions_total",
			Help:      "Output paths claimed by more than one primary document",
		}),
		executorDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "executor_duration_seconds",
			Help:      "Wall time of the external build executor",
			Buckets:   prom.ExponentialBuckets(0.1, 2, 12),
		}),
		executorExits: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "executor_exits_total",
			Help:      "External build executor exit codes",
		}, []string{"code"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total run duration",
			Buckets:   prom.ExponentialBuckets(0.1, 2, 12),
		}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.edges, pr.skipped, pr.collisions,
		pr.executorDuration, pr.executorExits, pr.runDuration, pr.runOutcomes, pr.lastRun)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) AddEdges(rule string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.edges.WithLabelValues(rule).Add(float64(n))
}

func (p *PrometheusRecorder) AddSkippedPassThrough(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.skipped.Add(float64(n))
}

func (p *PrometheusRecorder) AddPrimaryCollisions(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.collisions.Add(float64(n))
}

func (p *PrometheusRecorder) ObserveExecutorDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.executorDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncExecutorExit(code int) {
	if p == nil {
		return
	}
	p.executorExits.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcomeLabel) {
	if p == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
	p.lastRun.SetToCurrentTime()
}
