package conformance_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/johnwards/seedgate/internal/auth"
)

// doRequest makes an HTTP request to the test server and returns the response.
// The caller is responsible for closing the response body.
func doRequest(t *testing.T, method, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, serverURL+path, http.NoBody)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// readJSON reads the response body and unmarshals it into a map.
func readJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(b, &result); err != nil {
		t.Fatalf("unmarshal response (status %d): body=%s err=%v", resp.StatusCode, string(b), err)
	}
	return result
}

// mustStatus asserts the HTTP response has the expected status code.
func mustStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status %d, got %d; body=%s", expected, resp.StatusCode, string(b))
	}
}

// adminToken mints a token the server accepts.
func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.NewIssuer(authSecret, time.Hour).Issue("conformance", "admin")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func assertStringField(t *testing.T, m map[string]any, key, expected string) {
	t.Helper()
	v, ok := m[key]
	if !ok {
		t.Errorf("missing field %q", key)
		return
	}
	s, ok := v.(string)
	if !ok {
		t.Errorf("field %q: expected string, got %T", key, v)
		return
	}
	if s != expected {
		t.Errorf("field %q = %q, want %q", key, s, expected)
	}
}

func assertBoolField(t *testing.T, m map[string]any, key string, expected bool) {
	t.Helper()
	v, ok := m[key]
	if !ok {
		t.Errorf("missing field %q", key)
		return
	}
	b, ok := v.(bool)
	if !ok {
		t.Errorf("field %q: expected bool, got %T", key, v)
		return
	}
	if b != expected {
		t.Errorf("field %q = %v, want %v", key, b, expected)
	}
}

func assertIsObject(t *testing.T, m map[string]any, key string) map[string]any {
	t.Helper()
	v, ok := m[key]
	if !ok {
		t.Fatalf("missing field %q", key)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("field %q: expected object, got %T", key, v)
	}
	return obj
}

// assertOnlyKeys fails if m has keys outside want.
func assertOnlyKeys(t *testing.T, m map[string]any, want ...string) {
	t.Helper()
	allowed := make(map[string]bool, len(want))
	for _, k := range want {
		allowed[k] = true
	}
	for k := range m {
		if !allowed[k] {
			t.Errorf("unexpected field %q", k)
		}
	}
}
