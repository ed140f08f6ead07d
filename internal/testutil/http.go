// Package testutil holds helpers shared by the HTTP tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// NewJSONRequest builds a request carrying body as application/json.
// An empty body sends no payload.
func NewJSONRequest(method, path, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func ExecuteRequest(req *http.Request, handler http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func CheckResponseCode(t testing.TB, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

// DecodeJSONBody decodes body into dst and fails the test on error.
func DecodeJSONBody(t testing.TB, body io.Reader, dst any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
}

// DecodeError decodes the {"error", "kind"} body written for failed requests.
func DecodeError(t testing.TB, body io.Reader) (msg, kind string) {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	DecodeJSONBody(t, body, &payload)
	return payload.Error, payload.Kind
}
