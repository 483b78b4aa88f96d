package ocr

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksi-nova/swasthya-ai/internal/testutil"
)

func testImage(w, h int) image.Image {
	return image.NewGray(image.Rect(0, 0, w, h))
}

func TestRemoteEngine_Recognize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "page.png", header.Filename)
		assert.Equal(t, "text", r.FormValue("format"))

		_, _ = w.Write([]byte("HAEMOGLOBIN\n13.2\n"))
	}))
	defer server.Close()

	engine, err := NewRemoteEngine(server.URL)
	require.NoError(t, err)

	page := testutil.RenderReportPage("HAEMOGLOBIN 13.2 g/dL")
	text, err := engine.Recognize(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, "HAEMOGLOBIN\n13.2\n", text)
}

func TestRemoteEngine_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	engine, err := NewRemoteEngine(server.URL)
	require.NoError(t, err)

	_, err = engine.Recognize(context.Background(), testImage(10, 10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestRemoteEngine_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	engine, err := NewRemoteEngine(server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = engine.Recognize(ctx, testImage(10, 10))
	require.Error(t, err)
}

func TestRemoteEngine_NilImage(t *testing.T) {
	engine, err := NewRemoteEngine("http://localhost:9999/ocr/image")
	require.NoError(t, err)

	_, err = engine.Recognize(context.Background(), nil)
	require.Error(t, err)
}

func TestNewRemoteEngine_RequiresEndpoint(t *testing.T) {
	_, err := NewRemoteEngine("")
	require.Error(t, err)
}

func TestPreprocess_Resize(t *testing.T) {
	img := Preprocess(testImage(800, 2000), PreprocessOptions{Height: 1024})
	assert.Equal(t, 1024, img.Bounds().Dy())
}

func TestPreprocess_KeepsSmallImages(t *testing.T) {
	img := Preprocess(testImage(400, 500), PreprocessOptions{Height: 1024})
	assert.Equal(t, 500, img.Bounds().Dy())
	assert.Equal(t, 400, img.Bounds().Dx())
}

func TestPreprocess_Nil(t *testing.T) {
	assert.Nil(t, Preprocess(nil, PreprocessOptions{Grayscale: true}))
}
