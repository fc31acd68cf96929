package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manoj5621/Fashion-virtual/internal/config"
	"github.com/Manoj5621/Fashion-virtual/internal/service"
	"github.com/Manoj5621/Fashion-virtual/internal/storage"
)

type stubGenerator struct {
	image []byte
	err   error
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, _ string) ([]byte, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.image, nil
}

func newTestRouter(t *testing.T, gen *stubGenerator) (*gin.Engine, *storage.DiskStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	cfg := &config.AppConfig{
		Environment: "test",
		HTTP:        config.HTTPConfig{BaseURL: "http://localhost:8000"},
	}

	engine := gin.New()
	handlerSet := NewHandlerSet(zerolog.Nop(), nil, nil, store, gen, cfg)
	handlerSet.Register(engine)
	return engine, store
}

type imagePart struct {
	field       string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, images []imagePart, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, img := range images {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="upload.bin"`, img.field))
		header.Set("Content-Type", img.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(img.data)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func validImages() []imagePart {
	return []imagePart{
		{field: "person_image", contentType: "image/jpeg", data: []byte("person")},
		{field: "cloth_image", contentType: "image/png", data: []byte("cloth")},
	}
}

func TestTryOnEndpoint_Success(t *testing.T) {
	gen := &stubGenerator{image: []byte("generated-png")}
	engine, _ := newTestRouter(t, gen)

	body, contentType := multipartBody(t, validImages(), map[string]string{
		"model_type":   "full-body",
		"garment_type": "dress",
	})

	req := httptest.NewRequest(http.MethodPost, "/try-on", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp["image"].(string), "data:image/png;base64,"))
	assert.Equal(t, "Virtual try-on generated successfully.", resp["text"])
	assert.Equal(t, 1, gen.calls)
}

func TestTryOnEndpoint_ValidationStatuses(t *testing.T) {
	tests := []struct {
		name       string
		images     []imagePart
		wantStatus int
	}{
		{
			name: "bad person type",
			images: []imagePart{
				{field: "person_image", contentType: "image/gif", data: []byte("x")},
				{field: "cloth_image", contentType: "image/png", data: []byte("y")},
			},
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name: "missing cloth image",
			images: []imagePart{
				{field: "person_image", contentType: "image/jpeg", data: []byte("x")},
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{image: []byte("img")}
			engine, _ := newTestRouter(t, gen)

			body, contentType := multipartBody(t, tt.images, nil)
			req := httptest.NewRequest(http.MethodPost, "/try-on", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Zero(t, gen.calls, "provider must not run for invalid input")
		})
	}
}

func TestTryOnEndpoint_ProviderFailure(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("googleapi: Error 429: resource exhausted")}
	engine, _ := newTestRouter(t, gen)

	body, contentType := multipartBody(t, validImages(), nil)
	req := httptest.NewRequest(http.MethodPost, "/try-on", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rate Limit")
	assert.NotContains(t, rec.Body.String(), "resource exhausted")
}

func TestGalleryEndpoint_MissingUsername(t *testing.T) {
	engine, _ := newTestRouter(t, &stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/gallery", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFileServing_RoundTrip(t *testing.T) {
	engine, store := newTestRouter(t, &stubGenerator{})

	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	ctx := context.Background()
	require.NoError(t, store.EnsureDir(ctx, "users/alice/tryon_1"))
	require.NoError(t, store.WriteFile(ctx, "users/alice/tryon_1/output.png", payload))

	// The gallery URL path for this record must serve the identical bytes.
	urlPath := service.MountPrefix + "/" + service.NormalizeStoredPath("users/alice/tryon_1/output.png")
	req := httptest.NewRequest(http.MethodGet, urlPath, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, rec.Body.Bytes())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	req = httptest.NewRequest(http.MethodGet, "/download/users/alice/tryon_1/output.png", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, rec.Body.Bytes())
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
}

func TestFileServing_NotFound(t *testing.T) {
	engine, _ := newTestRouter(t, &stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/download/users/ghost/tryon_9/output.png", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
