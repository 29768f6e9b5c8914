package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radif/uploads/internal/logging"
	"github.com/radif/uploads/internal/metrics"
	"github.com/radif/uploads/internal/storage"
	"github.com/radif/uploads/internal/upload"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPrometheusRecorder(reg)
	require.NoError(t, err)

	log := logging.Discard()
	h := upload.NewHandler(store, upload.DefaultPolicy(), upload.Options{Metrics: rec, Logger: log})
	return NewRouter(Deps{Uploads: h, Logger: log, Gatherer: reg})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealth(t *testing.T) {
	rec := serve(newTestRouter(t), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUnknownRouteAndMethod(t *testing.T) {
	r := newTestRouter(t)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"success": false, "message": "Route not found"}, jsonBody(t, rec))

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/upload", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", jsonBody(t, rec)["message"])
}

func TestUploadFetchDeleteThroughRouter(t *testing.T) {
	r := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="report.pdf"`)
	hdr.Set("Content-Type", "application/pdf")
	pw, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = pw.Write([]byte("%PDF-1.4 body"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(r, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	up := jsonBody(t, rec)
	assert.Equal(t, "document", up["type"])
	assert.Equal(t, "Document uploaded successfully", up["message"])
	name := up["filename"].(string)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/uploads/"+name, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.4 body", rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	del := httptest.NewRequest(http.MethodPost, "/delete", strings.NewReader(`{"filename":"`+name+`"}`))
	del.Header.Set("Content-Type", "application/json")
	rec = serve(r, del)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/uploads/"+name, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpointExposesUploadCounters(t *testing.T) {
	r := newTestRouter(t)

	serve(r, httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `uploads_fetch_requests_total{outcome="not_found"} 1`)
}

func TestSwaggerDocIsServed(t *testing.T) {
	rec := serve(newTestRouter(t), httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"/uploads/{filename}"`)
	assert.Contains(t, string(body), "Upload Service API")
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := serve(newTestRouter(t), req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
