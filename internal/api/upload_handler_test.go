package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-notes/internal/platform/filestore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadRouter(t *testing.T, maxBytes int64) http.Handler {
	t.Helper()

	files, err := filestore.NewLocalStore(afero.NewMemMapFs(), "/uploads", maxBytes, nil)
	require.NoError(t, err)

	h := NewUploadHandler(files, maxBytes, nil)
	r := chi.NewRouter()
	r.Post("/api/upload", h.Upload)
	r.Get("/uploads/{name}", h.ServeFile)
	return r
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func upload(t *testing.T, router http.Handler, field, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, field, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestUploadAndServe(t *testing.T) {
	router := newUploadRouter(t, 1024)

	rr := upload(t, router, "file", "lecture notes.pdf", "%PDF-1.4 body")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Path, "/uploads/"))
	assert.True(t, strings.HasSuffix(resp.Path, "_lecture_notes.pdf"))

	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, resp.Path, nil))
	require.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, "%PDF-1.4 body", get.Body.String())
	assert.Equal(t, "application/pdf", get.Header().Get("Content-Type"))
}

func TestUploadWithoutFile(t *testing.T) {
	router := newUploadRouter(t, 1024)

	rr := upload(t, router, "attachment", "a.txt", "x")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "No file uploaded", errorMessage(t, rr))

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("plain"))
	plain := httptest.NewRecorder()
	router.ServeHTTP(plain, req)
	assert.Equal(t, http.StatusBadRequest, plain.Code)
}

func TestUploadTooLarge(t *testing.T) {
	router := newUploadRouter(t, 8)

	rr := upload(t, router, "file", "big.bin", "0123456789")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, "File too large", errorMessage(t, rr))
}

func TestServeMissingFile(t *testing.T) {
	router := newUploadRouter(t, 1024)

	for _, path := range []string{"/uploads/missing.pdf", "/uploads/..%2Fsecret"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
	}
}
