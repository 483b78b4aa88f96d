// Package server exposes report extraction over HTTP: upload endpoints,
// raw text extraction, health, metrics, and a websocket channel with
// per-page progress.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/niksi-nova/swasthya-ai/internal/pipeline"
)

// Extractor is the slice of the extraction pipeline the server needs.
type Extractor interface {
	ProcessFile(ctx context.Context, path string) (*pipeline.ExtractionResult, error)
	ProcessText(text string) *pipeline.ExtractionResult
}

// ExtractorFactory builds an extractor, optionally wired to a progress
// callback. The websocket handler uses the callback to stream per-page
// progress; the plain HTTP handlers pass nil.
type ExtractorFactory func(progress pipeline.ProgressCallback) Extractor

// Config holds server configuration.
type Config struct {
	Host         string
	Port         int
	CORSOrigin   string
	MaxUploadMB  int64
	TimeoutSec   int
	NewExtractor ExtractorFactory
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	newExtractor ExtractorFactory
	extractor    Extractor
	corsOrigin   string
	maxUploadMB  int64
	timeoutSec   int
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// ErrorResponse is the uniform JSON error payload.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// TextExtractionRequest is the /extract/text request body.
type TextExtractionRequest struct {
	Text string `json:"text"`
}

// NewServer creates a new extraction server instance.
func NewServer(config Config) (*Server, error) {
	if config.NewExtractor == nil {
		return nil, errors.New("server requires an extractor factory")
	}
	if config.MaxUploadMB <= 0 {
		config.MaxUploadMB = 50
	}
	if config.TimeoutSec <= 0 {
		config.TimeoutSec = 120
	}

	return &Server{
		newExtractor: config.NewExtractor,
		extractor:    config.NewExtractor(nil),
		corsOrigin:   config.CORSOrigin,
		maxUploadMB:  config.MaxUploadMB,
		timeoutSec:   config.TimeoutSec,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/extract/report", s.corsMiddleware(s.extractReportHandler))
	mux.HandleFunc("/extract/text", s.corsMiddleware(s.extractTextHandler))
	mux.HandleFunc("/ws", s.extractWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}

// requestTimeout returns the per-request processing deadline.
func (s *Server) requestTimeout() time.Duration {
	return time.Duration(s.timeoutSec) * time.Second
}
