// internal/server/server.go

// Package server exposes the answer pipeline over HTTP: POST /api/query for
// questions, GET / for liveness and GET /metrics for Prometheus scraping.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wikiqa/internal/common/config"
	apperrors "wikiqa/internal/common/errors"
	"wikiqa/internal/common/logger"
	"wikiqa/internal/common/metrics"
	"wikiqa/internal/common/observability"
	"wikiqa/internal/pipeline"
)

const maxRequestBytes = 1 << 20

type QueryRequest struct {
	Query               string                   `json:"query"`
	ConversationHistory []map[string]interface{} `json:"conversation_history,omitempty"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

type Server struct {
	config     config.ServerConfig
	pipeline   *pipeline.Pipeline
	obs        *observability.Observability
	logger     logger.Logger
	httpServer *http.Server
}

func NewServer(cfg config.ServerConfig, p *pipeline.Pipeline, obs *observability.Observability, log logger.Logger) *Server {
	s := &Server{
		config:   cfg,
		pipeline: p,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "server"}),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}
	return s
}

// Handler builds the route table wrapped in the CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/api/query", s.handleQuery)
	mux.Handle("/metrics", promhttp.Handler())
	return s.corsMiddleware(mux)
}

func (s *Server) Start() error {
	s.logger.Info("server listening", map[string]interface{}{"addr": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Wikipedia Q&A API is running"})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Detail: "method not allowed"})
		return
	}

	requestID := uuid.NewString()
	log := s.logger.WithFields(map[string]interface{}{"requestId": requestID})

	metrics.QueriesInFlight.WithLabelValues("/api/query").Inc()
	defer metrics.QueriesInFlight.WithLabelValues("/api/query").Dec()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "failed to read request body"})
		return
	}

	if err := validateQueryRequest(body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
		return
	}

	var req QueryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "failed to decode request"})
		return
	}

	start := time.Now()
	response, err := s.pipeline.Answer(r.Context(), req.Query)
	if err != nil {
		outcome, status, detail := classifyError(err)
		s.obs.RecordQueryAnswered(r.Context(), outcome)
		s.obs.RecordQueryDuration(r.Context(), time.Since(start), outcome)
		log.WithError(err).Warn("query failed", map[string]interface{}{"status": status})
		writeJSON(w, status, errorBody{Detail: detail})
		return
	}

	s.obs.RecordQueryAnswered(r.Context(), "answered")
	s.obs.RecordQueryDuration(r.Context(), time.Since(start), "answered")
	log.Info("query served", map[string]interface{}{
		"confidence": response.Confidence,
		"durationMs": time.Since(start).Milliseconds(),
	})
	writeJSON(w, http.StatusOK, response)
}

// classifyError maps pipeline errors onto the HTTP surface: the two terminal
// conditions keep their message, anything else becomes a generic server
// error.
func classifyError(err error) (outcome string, status int, detail string) {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		status = apperrors.HTTPStatus(stdErr.Code)
		if apperrors.IsTerminal(stdErr.Code) {
			return string(stdErr.Code), status, stdErr.Message
		}
		return "error", status, "Internal server error"
	}
	return "error", http.StatusInternalServerError, "Internal server error"
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(s.config.AllowedOrigins))
	wildcard := false
	for _, o := range s.config.AllowedOrigins {
		if o == "*" {
			wildcard = true
		}
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (wildcard || allowed[origin]) {
			if wildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
