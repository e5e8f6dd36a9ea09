//nolint:unused
package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"moviecatalog/httpserver"
	"moviecatalog/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Port = 8080
	cfg.AllowOrigins = "*"
	return cfg
}

func newJSONRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func serve(server *httpserver.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}

func decodeErrorResponse(t testing.TB, rec *httptest.ResponseRecorder) httpserver.ErrorResponse {
	t.Helper()
	var resp httpserver.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "Failed to decode error response")
	return resp
}

func decodeDocument(t testing.TB, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc), "Failed to decode response")
	return doc
}

func decodeDocuments(t testing.TB, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var docs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs), "Failed to decode response")
	return docs
}
