// Package testutil provides shared helpers for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
)

// NewRequest creates a JSON HTTP request for testing.
func NewRequest(method, path string, body interface{}) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	bodyBytes, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewAdminRequest creates a request carrying the admin secret header.
func NewAdminRequest(method, path string, body interface{}, secret string) *http.Request {
	r := NewRequest(method, path, body)
	if secret != "" {
		r.Header.Set("X-Admin-Secret", secret)
	}
	return r
}

// RecordedResponse is a decoded HTTP response for assertions.
type RecordedResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// Record decodes the recorded response body as JSON.
func Record(w *httptest.ResponseRecorder) RecordedResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordedResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// ErrorCode extracts the error code from an enveloped error response.
func (r RecordedResponse) ErrorCode() string {
	errBody, ok := r.Body["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errBody["code"].(string)
	return code
}

// Data extracts the data object from an enveloped success response.
func (r RecordedResponse) Data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}
