package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rpgo/valuation-simulator/internal/calculation"
	"github.com/rpgo/valuation-simulator/internal/config"
	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/rpgo/valuation-simulator/internal/observability"
	"github.com/rpgo/valuation-simulator/internal/output"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxBodyBytes bounds the size of a posted configuration.
const maxBodyBytes = 1 << 20

// Server exposes the valuation engine over HTTP.
type Server struct {
	engine  *calculation.ValuationEngine
	parser  *config.InputParser
	metrics *observability.Collector
	log     *observability.Logger
	tracer  trace.Tracer
	mux     *http.ServeMux
}

// NewServer wires the routes. metrics and log may be nil.
func NewServer(engine *calculation.ValuationEngine, metrics *observability.Collector, log *observability.Logger) *Server {
	if engine == nil {
		engine = calculation.NewValuationEngine()
	}
	s := &Server{
		engine:  engine,
		parser:  config.NewInputParser(),
		metrics: metrics,
		log:     log,
		tracer:  otel.Tracer(observability.TracerName),
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/valuation", s.handleValuation)
	s.mux.HandleFunc("OPTIONS /api/valuation", s.handlePreflight)
	s.mux.HandleFunc("GET /api/valuation/example", s.handleExample)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if metrics != nil {
		s.mux.Handle("GET /metrics", metrics.Handler())
	}
	return s
}

// ServeHTTP implements http.Handler with access logging and request metrics.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.metrics.ObserveRequest(r.URL.Path, rec.status)
	if s.log != nil {
		s.log.Request(r.Method, r.URL.Path, rec.status, time.Since(start))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExample(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	writeJSON(w, http.StatusOK, config.CreateExampleConfiguration())
}

func (s *Server) handleValuation(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	ctx, span := s.tracer.Start(r.Context(), "valuation.request")
	defer span.End()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	formatter := output.GetFormatterByName(format)
	if formatter == nil {
		s.fail(w, span, http.StatusBadRequest, fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format))
		return
	}
	showYears, err := parseYears(r.URL.Query().Get("years"))
	if err != nil {
		s.fail(w, span, http.StatusBadRequest, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.ObserveRun(observability.OutcomeInvalid, 0, 0)
			s.fail(w, span, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.fail(w, span, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return
	}
	fc, err := s.parser.Parse(body, config.FormatJSON)
	if err != nil {
		s.metrics.ObserveRun(observability.OutcomeInvalid, 0, 0)
		s.fail(w, span, http.StatusBadRequest, err)
		return
	}
	if r.URL.Query().Get("strict") == "true" {
		if violations := config.CheckBounds(fc); len(violations) > 0 {
			s.metrics.ObserveRun(observability.OutcomeInvalid, 0, 0)
			span.SetStatus(codes.Error, "bounds violated")
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "configuration out of bounds", "violations": violations})
			return
		}
	}
	assumptions, err := s.parser.Build(fc)
	if err != nil {
		s.metrics.ObserveRun(observability.OutcomeInvalid, 0, 0)
		s.fail(w, span, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	report, err := s.engine.BuildReport(ctx, assumptions, showYears)
	elapsed := time.Since(start)
	if err != nil {
		outcome, status := observability.OutcomeFailed, http.StatusInternalServerError
		var yearErr *domain.YearError
		switch {
		case errors.As(err, &yearErr):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, domain.ErrInvalidAssumptions):
			outcome, status = observability.OutcomeInvalid, http.StatusBadRequest
		}
		s.metrics.ObserveRun(outcome, elapsed, 0)
		if s.log != nil {
			s.log.Run("", len(assumptions.Years), len(assumptions.Segments), elapsed, err)
		}
		s.fail(w, span, status, err)
		return
	}
	s.metrics.ObserveRun(observability.OutcomeSuccess, elapsed, len(report.Results))
	if s.log != nil {
		s.log.Run(report.RunID, len(report.Results), len(assumptions.Segments), elapsed, nil)
	}
	span.SetAttributes(
		attribute.String("valsim.run_id", report.RunID),
		attribute.Int("valsim.years", len(report.Results)),
		attribute.String("valsim.format", formatter.Name()),
	)

	data, err := formatter.Format(report)
	if err != nil {
		s.fail(w, span, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", contentType(output.ExtensionFor(formatter)))
	w.Header().Set("X-Run-ID", report.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) fail(w http.ResponseWriter, span trace.Span, status int, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contentType(ext string) string {
	switch ext {
	case "json":
		return "application/json"
	case "csv":
		return "text/csv; charset=utf-8"
	case "html":
		return "text/html; charset=utf-8"
	case "md":
		return "text/markdown; charset=utf-8"
	case "pdf":
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}

// parseYears reads a comma-separated year list such as "2025,2035".
func parseYears(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var years []int
	for _, part := range strings.Split(raw, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", part, err)
		}
		years = append(years, y)
	}
	return years, nil
}
