package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// RemoteEngine recognizes page images by calling an external OCR
// service over HTTP. The service accepts a multipart form with an
// "image" file part and a "format" field and returns the recognized
// text as a plain-text body.
type RemoteEngine struct {
	endpoint   string
	client     *http.Client
	preprocess PreprocessOptions
}

// RemoteOption configures a RemoteEngine.
type RemoteOption func(*RemoteEngine)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(e *RemoteEngine) {
		e.client = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) RemoteOption {
	return func(e *RemoteEngine) {
		e.client.Timeout = timeout
	}
}

// WithPreprocessing sets the image normalization applied before upload.
func WithPreprocessing(opts PreprocessOptions) RemoteOption {
	return func(e *RemoteEngine) {
		e.preprocess = opts
	}
}

// NewRemoteEngine creates an engine backed by the OCR service at endpoint.
func NewRemoteEngine(endpoint string, opts ...RemoteOption) (*RemoteEngine, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("ocr endpoint is required")
	}

	engine := &RemoteEngine{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine, nil
}

// Recognize sends the page image to the OCR service and returns the
// recognized text.
func (e *RemoteEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("no image to recognize")
	}

	img = Preprocess(img, e.preprocess)

	body, contentType, err := encodeRequest(img)
	if err != nil {
		return "", fmt.Errorf("failed to encode OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to build OCR request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("OCR service request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read OCR response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR service returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(data)))
	}

	slog.Debug("OCR request completed",
		"endpoint", e.endpoint,
		"duration", time.Since(start),
		"chars", len(data))

	return string(data), nil
}

// encodeRequest builds the multipart body for a recognition request.
func encodeRequest(img image.Image) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "page.png")
	if err != nil {
		return nil, "", err
	}
	if err := png.Encode(part, img); err != nil {
		return nil, "", err
	}

	if err := writer.WriteField("format", "text"); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
