package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ecommerce-api/internal/events"
	"ecommerce-api/internal/handler"
	"ecommerce-api/internal/imagestore"
	"ecommerce-api/internal/model"
	"ecommerce-api/internal/repository"
	"ecommerce-api/internal/service"
	"ecommerce-api/internal/validation"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	logger := zerolog.Nop()
	staticDir := t.TempDir()

	repo := repository.NewMemoryProductRepository(logger)
	validator := validation.New()
	svc := service.NewProductService(repo, validator, events.NewNopPublisher(), logger)
	images, err := imagestore.NewLocalStore(filepath.Join(staticDir, "uploads"), "/uploads", logger)
	require.NoError(t, err)

	productHandler := handler.NewProductHandler(svc, validator, images, 1<<20, logger)
	healthHandler := handler.NewHealthHandler(svc, logger)

	return New(productHandler, healthHandler, Options{APIKey: testAPIKey, StaticDir: staticDir}, logger), staticDir
}

func do(h http.Handler, method, path, body string, withKey bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if withKey {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_ProductLifecycle(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(h, http.MethodPost, "/products", `{"name":"Keyboard","price":49.9,"category":"electronics"}`, true)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var created struct {
		Data model.Product `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, int64(1), created.Data.ID)

	w = do(h, http.MethodGet, "/products/1", "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(h, http.MethodGet, "/products?category=electronics", "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(h, http.MethodPatch, "/products/1", `{"price":39.9}`, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(h, http.MethodDelete, "/products/1", "", true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(h, http.MethodGet, "/products/1", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_APIKeyOnWritesOnly(t *testing.T) {
	h, _ := newTestRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{name: "Create", method: http.MethodPost, path: "/products", body: `{"name":"x","price":1}`, expectedStatus: http.StatusUnauthorized},
		{name: "Update", method: http.MethodPatch, path: "/products/1", body: `{}`, expectedStatus: http.StatusUnauthorized},
		{name: "Delete", method: http.MethodDelete, path: "/products/1", expectedStatus: http.StatusUnauthorized},
		{name: "List", method: http.MethodGet, path: "/products", expectedStatus: http.StatusOK},
		{name: "Health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, tt.method, tt.path, tt.body, false)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRouter_SwaggerDocument(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(h, http.MethodGet, "/api", "", false)
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/api/index.html", w.Header().Get("Location"))

	w = do(h, http.MethodGet, "/api/doc.json", "", false)
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Swagger string                                `json:"swagger"`
		Paths   map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Contains(t, doc.Paths["/products"], "get")
	assert.Contains(t, doc.Paths["/products"], "post")
	assert.Contains(t, doc.Paths["/products/{id}"], "get")
	assert.Contains(t, doc.Paths["/products/{id}"], "patch")
	assert.Contains(t, doc.Paths["/products/{id}"], "delete")
}

func TestRouter_StaticFiles(t *testing.T) {
	h, staticDir := newTestRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "hello.txt"), []byte("hello"), 0o644))

	w := do(h, http.MethodGet, "/hello.txt", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())

	w = do(h, http.MethodGet, "/missing.txt", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_StaticDirectoriesAreNotListed(t *testing.T) {
	h, staticDir := newTestRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "uploads", "a.png"), []byte("png"), 0o644))

	for _, path := range []string{"/uploads/", "/uploads", "/"} {
		w := do(h, http.MethodGet, path, "", false)
		assert.NotEqual(t, http.StatusOK, w.Code, path)
		assert.NotContains(t, w.Body.String(), "a.png", path)
	}

	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "site"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "site", "index.html"), []byte("<h1>shop</h1>"), 0o644))

	w := do(h, http.MethodGet, "/site/", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shop")
}

func TestRouter_RejectedUploadsLeaveNoFiles(t *testing.T) {
	h, staticDir := newTestRouter(t)

	w := do(h, http.MethodPost, "/products", `{"name":"Keyboard","price":49.9}`, true)
	require.Equal(t, http.StatusCreated, w.Code)

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

	tests := []struct {
		name           string
		method         string
		path           string
		fields         map[string]string
		expectedStatus int
	}{
		{name: "Create without name", method: http.MethodPost, path: "/products", fields: map[string]string{"price": "10"}, expectedStatus: http.StatusBadRequest},
		{name: "Update unknown product", method: http.MethodPatch, path: "/products/999", fields: map[string]string{"name": "x"}, expectedStatus: http.StatusNotFound},
		{name: "Update with negative price", method: http.MethodPatch, path: "/products/1", fields: map[string]string{"price": "-5"}, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body bytes.Buffer
			mw := multipart.NewWriter(&body)
			for k, v := range tt.fields {
				require.NoError(t, mw.WriteField(k, v))
			}
			fw, err := mw.CreateFormFile("image", "photo.png")
			require.NoError(t, err)
			_, err = fw.Write(png)
			require.NoError(t, err)
			require.NoError(t, mw.Close())

			req := httptest.NewRequest(tt.method, tt.path, &body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			req.Header.Set("X-API-Key", testAPIKey)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			entries, err := os.ReadDir(filepath.Join(staticDir, "uploads"))
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := newTestRouter(t)
	do(h, http.MethodGet, "/products", "", false)

	w := do(h, http.MethodGet, "/metrics", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ecommerce_http_requests_total")
}

func TestRouter_PanicsAreJSON(t *testing.T) {
	logger := zerolog.Nop()
	svc := &panickingService{}
	h := New(handler.NewProductHandler(svc, validation.New(), nil, 1<<20, logger), handler.NewHealthHandler(svc, logger), Options{StaticDir: t.TempDir()}, logger)

	w := do(h, http.MethodGet, "/products/1", "", false)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), model.ErrCodeInternalError)
}

type panickingService struct {
	service.ProductService
}

func (panickingService) GetByID(context.Context, int64) (*model.Product, error) {
	panic("boom")
}
