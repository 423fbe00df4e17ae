package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"line-lookup/internal/lookup"
)

const testAPIKey = "secret-api-key"

type fakeProber struct {
	name  string
	found bool
	err   error
}

func (f fakeProber) Name() string { return f.name }
func (f fakeProber) Path() string { return "/tmp/" + f.name }
func (f fakeProber) Lookup(ctx context.Context, raw []byte) (bool, error) {
	return f.found, f.err
}

// setupTestServer writes a lookup file and returns a routed handler over it.
func setupTestServer(t *testing.T, apiKey string, reread bool) (http.Handler, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "codes.txt")
	require.NoError(t, os.WriteFile(path, []byte("SAVE10\nWELCOME\n-e\n.*\n"), 0644))

	l, err := lookup.New(path, reread)
	require.NoError(t, err)

	probers := []Prober{
		fakeProber{name: "linear", found: true},
		fakeProber{name: "grep", err: errors.New("grep: exited with status 2")},
	}
	return NewServer(l, probers, apiKey, nil).Handler(), path
}

func doRequest(t *testing.T, h http.Handler, method, target string, body io.Reader, apiKey string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if apiKey != "" {
		req.Header.Set(APIKeyHeader, apiKey)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	resp := w.Result()
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func lookupURL(q string) string {
	return "/v1/lookup?" + url.Values{"q": {q}}.Encode()
}

func TestServer_LookupQuery(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		apiKey         string
		expectedStatus int
		expectedFound  bool
		expectedError  string
	}{
		{
			name:           "Found",
			target:         lookupURL("SAVE10"),
			apiKey:         testAPIKey,
			expectedStatus: http.StatusOK,
			expectedFound:  true,
		},
		{
			name:           "Found_Sanitized",
			target:         lookupURL("  WELCOME\r\n"),
			apiKey:         testAPIKey,
			expectedStatus: http.StatusOK,
			expectedFound:  true,
		},
		{
			name:           "NotFound_Prefix",
			target:         lookupURL("SAVE"),
			apiKey:         testAPIKey,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Found_Metacharacters",
			target:         lookupURL(".*"),
			apiKey:         testAPIKey,
			expectedStatus: http.StatusOK,
			expectedFound:  true,
		},
		{
			name:           "BadRequest_MissingQuery",
			target:         "/v1/lookup",
			apiKey:         testAPIKey,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid format for parameter q",
		},
		{
			name:           "Unauthorized_MissingKey",
			target:         lookupURL("SAVE10"),
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid or missing API key",
		},
		{
			name:           "Unauthorized_InvalidKey",
			target:         lookupURL("SAVE10"),
			apiKey:         "wrong-key",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid or missing API key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestServer(t, testAPIKey, false)
			resp := doRequest(t, h, http.MethodGet, tt.target, nil, tt.apiKey)

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedError != "" {
				var errResp ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
				assert.Contains(t, errResp.Error, tt.expectedError)
				return
			}

			var lr LookupResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&lr))
			assert.Equal(t, tt.expectedFound, lr.Found)
			assert.Equal(t, lookup.ModeCached, lr.Strategy)
			assert.NotEmpty(t, lr.Id)
		})
	}
}

func TestServer_LookupBody(t *testing.T) {
	tests := []struct {
		name           string
		body           []byte
		expectedStatus int
		expectedFound  bool
	}{
		{"Found", []byte("SAVE10\n"), http.StatusOK, true},
		{"Found_InvalidUTF8Dropped", []byte("WEL\xffCOME"), http.StatusOK, true},
		{"NotFound", []byte("SAVE20"), http.StatusOK, false},
		{"Empty", nil, http.StatusOK, false},
		{"TooLarge", bytes.Repeat([]byte("a"), MaxBodySize+1), http.StatusRequestEntityTooLarge, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestServer(t, "", false)
			resp := doRequest(t, h, http.MethodPost, "/v1/lookup", bytes.NewReader(tt.body), "")

			require.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var lr LookupResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&lr))
			assert.Equal(t, tt.expectedFound, lr.Found)
		})
	}
}

func TestServer_FreshReadSeesUpdates(t *testing.T) {
	h, path := setupTestServer(t, "", true)

	var lr LookupResponse
	resp := doRequest(t, h, http.MethodGet, lookupURL("NEWCODE"), nil, "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lr))
	assert.False(t, lr.Found)
	assert.Equal(t, lookup.ModeFreshRead, lr.Strategy)

	require.NoError(t, os.WriteFile(path, []byte("NEWCODE\n"), 0644))

	resp = doRequest(t, h, http.MethodGet, lookupURL("NEWCODE"), nil, "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lr))
	assert.True(t, lr.Found)
}

func TestServer_ListStrategies(t *testing.T) {
	h, _ := setupTestServer(t, "", false)
	resp := doRequest(t, h, http.MethodGet, "/v1/strategies", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var infos []StrategyInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "grep", infos[0].Name)
	assert.Equal(t, "linear", infos[1].Name)
}

func TestServer_StrategyLookup(t *testing.T) {
	tests := []struct {
		name           string
		strategy       string
		expectedStatus int
		expectedFound  bool
		expectedError  string
	}{
		{"Found", "linear", http.StatusOK, true, ""},
		{"ErrorFailsClosed", "grep", http.StatusOK, false, "exited with status 2"},
		{"UnknownStrategy", "ripgrep", http.StatusNotFound, false, "Unknown strategy: ripgrep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestServer(t, "", false)
			target := "/v1/strategies/" + tt.strategy + "/lookup?q=SAVE10"
			resp := doRequest(t, h, http.MethodGet, target, nil, "")

			require.Equal(t, tt.expectedStatus, resp.StatusCode)

			var lr LookupResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&lr))
			assert.Equal(t, tt.expectedFound, lr.Found)
			if tt.expectedError != "" {
				assert.Contains(t, lr.Error, tt.expectedError)
			}
		})
	}
}

func TestServer_Health(t *testing.T) {
	h, path := setupTestServer(t, testAPIKey, false)

	// healthz is not behind the api key
	resp := doRequest(t, h, http.MethodGet, "/healthz", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hr HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hr))
	assert.Equal(t, HealthResponse{Status: "ok", Mode: lookup.ModeCached, Entries: 4}, hr)

	require.NoError(t, os.WriteFile(path, []byte("CHANGED\n"), 0644))
	resp = doRequest(t, h, http.MethodGet, "/healthz", nil, "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hr))
	assert.True(t, hr.Stale)

	require.NoError(t, os.Remove(path))
	resp = doRequest(t, h, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	h, _ := setupTestServer(t, "", false)
	doRequest(t, h, http.MethodGet, lookupURL("SAVE10"), nil, "")

	resp := doRequest(t, h, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "lookup_queries_total"))
}
