package observability

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phuslu/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"", log.InfoLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"trace", log.TraceLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	lg, err := NewLogger(&buf, "info", FormatJSON)
	require.NoError(t, err)

	lg.Debugf("hidden %d", 1)
	lg.With("run_id", "abc").Infof("projected %d years", 11)
	lg.Warnf("year %d: cost", 2030)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"run_id":"abc"`)
	assert.Contains(t, out, `"message":"projected 11 years"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestLoggerRunAndRequest(t *testing.T) {
	var buf bytes.Buffer
	lg, err := NewLogger(&buf, "debug", FormatJSON)
	require.NoError(t, err)

	lg.Run("r1", 11, 5, time.Millisecond, nil)
	lg.Run("r2", 0, 5, 0, errors.New("boom"))
	lg.Request("POST", "/api/valuation", 422, time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, `"message":"valuation run complete"`)
	assert.Contains(t, out, `"years":11`)
	assert.Contains(t, out, `"message":"valuation run failed"`)
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, `"status":422`)
}

func TestNewLoggerRejectsUnknownFormat(t *testing.T) {
	_, err := NewLogger(nil, "info", "xml")
	assert.Error(t, err)
	_, err = NewLogger(nil, "noisy", FormatConsole)
	assert.Error(t, err)

	lg, err := NewLogger(&bytes.Buffer{}, "info", FormatConsole)
	require.NoError(t, err)
	assert.NotNil(t, lg)
}

func TestCollectorObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.ObserveRun(OutcomeSuccess, 2*time.Millisecond, 11)
	c.ObserveRun(OutcomeSuccess, time.Millisecond, 5)
	c.ObserveRun(OutcomeInvalid, time.Millisecond, 0)
	c.ObserveRequest("/api/valuation", 200)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Runs.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Runs.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 16.0, testutil.ToFloat64(c.YearsProjected))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Requests.WithLabelValues("/api/valuation", "200")))
}

func TestCollectorReRegistrationReusesExisting(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	require.NoError(t, err)
	second, err := NewCollector(reg)
	require.NoError(t, err)

	second.ObserveRun(OutcomeFailed, time.Millisecond, 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.Runs.WithLabelValues(OutcomeFailed)))
}

func TestCollectorHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)
	c.ObserveRun(OutcomeSuccess, time.Millisecond, 3)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `valsim_runs_total{outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), "valsim_years_projected_total 3")
	assert.Contains(t, rec.Body.String(), "valsim_run_duration_seconds_count 1")
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRun(OutcomeSuccess, time.Millisecond, 1)
		c.ObserveRequest("/", 200)
	})
}

func TestInitTracingStdout(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracing(context.Background(), TracingConfig{Enabled: true, ServiceName: "valsim-test", Writer: &buf}, nil)
	require.NoError(t, err)

	_, span := otel.Tracer(TracerName).Start(context.Background(), "valuation.run")
	span.End()
	ShutdownWithTimeout(context.Background(), shutdown, nil)

	assert.Contains(t, buf.String(), "valuation.run")
	assert.Contains(t, buf.String(), "valsim-test")
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{}, nil)
	require.NoError(t, err)
	_, span := otel.Tracer(TracerName).Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}
