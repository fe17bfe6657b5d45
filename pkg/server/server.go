// Package server exposes Relay over HTTP: routing and query endpoints,
// agent listing, explicit refresh, health, and prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relaymesh/relay/pkg/dispatch"
	"github.com/relaymesh/relay/pkg/router"
	"github.com/relaymesh/relay/pkg/runtime"
)

// Server is the Relay HTTP server.
type Server struct {
	rt      *runtime.Runtime
	handler http.Handler
	server  *http.Server
}

// New creates a Server around a runtime.
func New(rt *runtime.Runtime) *Server {
	s := &Server{rt: rt}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/agents", s.handleAgents)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/route", s.handleRoute)
		r.Post("/query", s.handleQuery)
	})

	s.handler = r
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves HTTP on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := s.rt.Config().Server.Address()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "address", addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

// ============================================================================
// HANDLERS
// ============================================================================

type queryRequest struct {
	Query string `json:"query"`
}

type routeResponse struct {
	Agent   string `json:"agent"`
	Method  string `json:"method"`
	Matched bool   `json:"matched"`
}

type queryResponse struct {
	routeResponse
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	snap := s.rt.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"agents": snap.Cards(),
		"total":  snap.Len(),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	discovered, err := s.rt.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	discoveredAgents.Set(float64(discovered))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"configured": len(s.rt.Config().Agents),
		"discovered": discovered,
	})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	query, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	decision, err := s.rt.Route(r.Context(), query)
	if err != nil {
		routeFailures.Inc()
		writeRoutingError(w, err)
		return
	}

	routeDecisions.WithLabelValues(string(decision.Method), boolLabel(decision.Matched)).Inc()
	writeJSON(w, http.StatusOK, routeResponse{
		Agent:   decision.Agent,
		Method:  string(decision.Method),
		Matched: decision.Matched,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	query, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result, err := s.rt.Handle(r.Context(), query)
	if err != nil {
		if errors.Is(err, router.ErrNoAgentsAvailable) {
			routeFailures.Inc()
		} else {
			dispatchDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		}
		writeRoutingError(w, err)
		return
	}

	routeDecisions.WithLabelValues(string(result.Decision.Method), boolLabel(result.Decision.Matched)).Inc()
	dispatchDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, queryResponse{
		routeResponse: routeResponse{
			Agent:   result.Decision.Agent,
			Method:  string(result.Decision.Method),
			Matched: result.Decision.Matched,
		},
		Response: result.Response,
	})
}

// ============================================================================
// HELPERS
// ============================================================================

func decodeQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return "", false
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, errors.New("query is required"))
		return "", false
	}
	return req.Query, true
}

// writeRoutingError maps the error taxonomy onto HTTP statuses: no agents
// is 503 (nothing to route to until a refresh succeeds), unreachable agent
// is 502 (the upstream failed), anything else 500.
func writeRoutingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, router.ErrNoAgentsAvailable):
		writeError(w, http.StatusServiceUnavailable, err)
	case errors.Is(err, dispatch.ErrAgentUnreachable):
		writeError(w, http.StatusBadGateway, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// requestLogger logs each request through slog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
