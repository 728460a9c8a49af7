package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration("generate", 150*time.Millisecond)
	pr.IncStageResult("generate", ResultSuccess)
	pr.AddEdges("org2md", 3)
	pr.AddEdges("copy", 1)
	pr.AddEdges("copy", 0)
	pr.AddSkippedPassThrough(2)
	pr.AddPrimaryCollisions(1)
	pr.ObserveExecutorDuration(2 * time.Second)
	pr.IncExecutorExit(0)
	pr.IncExecutorExit(1)
	pr.ObserveRunDuration(3 * time.Second)
	pr.IncRunOutcome(RunOutcomeSuccess)

	require.InDelta(t, 3, counterValue(t, pr.edges.WithLabelValues("org2md")), 0)
	require.InDelta(t, 1, counterValue(t, pr.edges.WithLabelValues("copy")), 0)
	require.InDelta(t, 2, counterValue(t, pr.skipped), 0)
	require.InDelta(t, 1, counterValue(t, pr.collisions), 0)
	require.InDelta(t, 1, counterValue(t, pr.executorExits.WithLabelValues("1")), 0)
	require.InDelta(t, 1, counterValue(t, pr.runOutcomes.WithLabelValues("success")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func counterValue(t *testing.T, c prom.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.AddEdges("copy", 1)
	pr.IncRunOutcome(RunOutcomeFailed)
	pr.ObserveExecutorDuration(time.Second)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.AddEdges("copy", 1)
	r.IncExecutorExit(2)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).AddEdges("org2md", 5)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `orgbuilder_graph_edges_total{rule="org2md"} 5`)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncRunOutcome(RunOutcomeExecutorFailed)

	path := filepath.Join(t.TempDir(), "orgbuilder.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `orgbuilder_run_outcomes_total{outcome="executor_failed"} 1`))
}
