// Package server implements the heatnet HTTP synthesis API.
//
// The server exposes the synthesis pipeline over a chi router:
//
//	POST /api/v1/synthesize  run the pipeline on a JSON scene
//	GET  /healthz            liveness probe
//	GET  /metrics            prometheus metrics
//
// Synthesis and cache events are exported as prometheus metrics through
// the observability hook registry.
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hausweber/heatnet/pkg/errors"
	"github.com/hausweber/heatnet/pkg/geoio"
	"github.com/hausweber/heatnet/pkg/synth"
)

// Server handles synthesis API requests.
type Server struct {
	runner  *synth.Runner
	metrics *Metrics
	logger  *log.Logger
}

// New creates a server around the given runner. The prometheus-backed
// observability hooks are registered globally.
func New(runner *synth.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	m := NewMetrics()
	registerHooks(m)
	return &Server{runner: runner, metrics: m, logger: logger}
}

// Handler builds the chi router with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/synthesize", s.handleSynthesize)
	})

	return r
}

// instrument records request count and latency per route.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if p := routeCtx.RoutePattern(); p != "" {
				path = p
			}
		}
		s.metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(ww.Status()), time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// synthesizeRequest is the POST /api/v1/synthesize body: a scene in the
// JSON format of pkg/geoio plus optional pipeline parameters.
type synthesizeRequest struct {
	Nodes      json.RawMessage `json:"nodes"`
	Edges      json.RawMessage `json:"edges"`
	Buildings  json.RawMessage `json:"buildings,omitempty"`
	Generators json.RawMessage `json:"generators,omitempty"`

	Parameters synth.Options `json:"parameters,omitempty"`
}

type synthesizeResponse struct {
	*synth.Result
	InputHash string `json:"input_hash"`
	Cached    bool   `json:"cached"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  string(errors.ErrCodeInvalidInput),
		})
		return
	}

	scene, err := sceneFromRequest(&req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: err.Error(),
			Code:  string(errors.ErrCodeInvalidInput),
		})
		return
	}

	res, err := s.runner.Execute(r.Context(), scene.Graph, scene.Buildings, scene.Generators, req.Parameters)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.IsValidation(err) {
			status = http.StatusBadRequest
		}
		s.logger.Error("synthesis failed", "err", err)
		writeJSON(w, status, errorResponse{
			Error: err.Error(),
			Code:  string(errors.GetCode(err)),
		})
		return
	}

	writeJSON(w, http.StatusOK, synthesizeResponse{
		Result:    res.Result,
		InputHash: res.InputHash,
		Cached:    res.Cached,
	})
}

// sceneFromRequest reassembles the request fragments into a scene document
// and runs it through the geoio validation.
func sceneFromRequest(req *synthesizeRequest) (*geoio.Scene, error) {
	doc := map[string]json.RawMessage{}
	if req.Nodes != nil {
		doc["nodes"] = req.Nodes
	}
	if req.Edges != nil {
		doc["edges"] = req.Edges
	}
	if req.Buildings != nil {
		doc["buildings"] = req.Buildings
	}
	if req.Generators != nil {
		doc["generators"] = req.Generators
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return geoio.ReadJSON(bytes.NewReader(raw))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
