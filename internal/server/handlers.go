package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/niksi-nova/swasthya-ai/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("failed to encode health response", "error", err)
	}
}

// extractReportHandler accepts a PDF upload and returns the extraction
// result as JSON.
func (s *Server) extractReportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	maxBytes := s.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "too large") {
			s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		}
		extractionRequestsTotal.WithLabelValues("report", "error").Inc()
		return
	}

	file, header, err := r.FormFile("report")
	if err != nil {
		s.writeErrorResponse(w, "No report file provided", http.StatusBadRequest)
		extractionRequestsTotal.WithLabelValues("report", "error").Inc()
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxBytes {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		extractionRequestsTotal.WithLabelValues("report", "error").Inc()
		return
	}
	uploadSizeBytes.Observe(float64(header.Size))

	// The document backends work on files, so the upload is staged to a
	// temp path for the duration of the request.
	path, cleanup, err := stageUpload(file, header.Filename)
	if err != nil {
		s.writeErrorResponse(w, "Failed to store upload", http.StatusInternalServerError)
		extractionRequestsTotal.WithLabelValues("report", "error").Inc()
		return
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout())
	defer cancel()

	result, err := s.extractor.ProcessFile(ctx, path)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Extraction failed: %v", err), http.StatusUnprocessableEntity)
		extractionRequestsTotal.WithLabelValues("report", "error").Inc()
		return
	}
	// Report the client's filename, not the staging path.
	result.Source = header.Filename

	extractionRequestsTotal.WithLabelValues("report", "success").Inc()
	extractionDuration.WithLabelValues("report").Observe(time.Since(start).Seconds())
	extractionFields.WithLabelValues("report").Observe(float64(result.TotalFields))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("failed to encode extraction response", "error", err)
	}
}

// extractTextHandler extracts fields from raw report text sent as JSON.
func (s *Server) extractTextHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	var req TextExtractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		extractionRequestsTotal.WithLabelValues("text", "error").Inc()
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeErrorResponse(w, "Field 'text' is required", http.StatusBadRequest)
		extractionRequestsTotal.WithLabelValues("text", "error").Inc()
		return
	}

	result := s.extractor.ProcessText(req.Text)

	extractionRequestsTotal.WithLabelValues("text", "success").Inc()
	extractionDuration.WithLabelValues("text").Observe(time.Since(start).Seconds())
	extractionFields.WithLabelValues("text").Observe(float64(result.TotalFields))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("failed to encode extraction response", "error", err)
	}
}

// stageUpload copies an uploaded file to a temp path and returns the
// path with a cleanup function.
func stageUpload(file io.Reader, filename string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "swasthya-upload-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	base := filepath.Base(filename)
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "report.pdf"
	}
	path := filepath.Join(dir, base)

	out, err := os.Create(path) //nolint:gosec // G304: path built under our own temp dir
	if err != nil {
		cleanup()
		return "", nil, err
	}
	if _, err := io.Copy(out, file); err != nil {
		_ = out.Close()
		cleanup()
		return "", nil, err
	}
	if err := out.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: message}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
