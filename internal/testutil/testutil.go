// Package testutil holds HTTP helpers shared by handler tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Host is the authority used for requests built by NewRequest.
const Host = "localhost"

// NewRequest builds a request against http://localhost. A non-empty body is
// sent as application/json.
func NewRequest(method, target, body string) *http.Request {
	url := "http://" + Host + target
	if body == "" {
		return httptest.NewRequest(method, url, nil)
	}
	r := httptest.NewRequest(method, url, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// Do serves a request built by NewRequest and records the response.
func Do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, NewRequest(method, target, body))
	return w
}

// DecodeBody unmarshals the recorded JSON body into a generic map.
func DecodeBody(t testing.TB, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}
