package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pwaudit/pkg/audit"
	"github.com/ssargent/pwaudit/pkg/metrics"
)

const sample = "1-3 a: abcde\n1-3 b: cdefg\n2-9 c: ccccccccc\n"

type fakeRecorder struct {
	saved []*audit.Summary
	err   error
}

func (f *fakeRecorder) Save(summary *audit.Summary) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, summary)
	return nil
}

type checkEnvelope struct {
	Success bool          `json:"success"`
	Data    CheckResponse `json:"data"`
	Error   string        `json:"error"`
}

func setupTestServer(t *testing.T, config ServerConfig) (*Server, *fakeRecorder) {
	t.Helper()
	if config.Policy == "" {
		config.Policy = "count"
	}
	recorder := &fakeRecorder{}
	return NewServer(config, metrics.New(), nil, recorder), recorder
}

func doCheck(t *testing.T, s *Server, query, body string) (*httptest.ResponseRecorder, checkEnvelope) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/check"+query, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	var envelope checkEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	return w, envelope
}

func TestServer_handleHealth(t *testing.T) {
	server, _ := setupTestServer(t, ServerConfig{})

	w := httptest.NewRecorder()
	server.handleHealth(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var response APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.True(t, response.Success)
	assert.Equal(t, map[string]interface{}{"status": "healthy"}, response.Data)
}

func TestServer_handlePolicies(t *testing.T) {
	server, _ := setupTestServer(t, ServerConfig{Policy: "position"})

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/policies", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"default":"position","policies":["count","position"]}}`, w.Body.String())
}

func TestServer_handleCheck(t *testing.T) {
	t.Run("default policy", func(t *testing.T) {
		server, recorder := setupTestServer(t, ServerConfig{})
		w, envelope := doCheck(t, server, "", sample)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, envelope.Success)
		assert.Equal(t, "count", envelope.Data.Summary.Policy)
		assert.Equal(t, 2, envelope.Data.Summary.Valid)
		assert.Len(t, envelope.Data.Results, 3)

		require.Len(t, recorder.saved, 1)
		assert.Equal(t, envelope.Data.Summary.ID, recorder.saved[0].ID)
	})

	t.Run("position policy", func(t *testing.T) {
		server, _ := setupTestServer(t, ServerConfig{})
		w, envelope := doCheck(t, server, "?policy=position", sample)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, envelope.Data.Summary.Valid)
		assert.Equal(t, 2, envelope.Data.Summary.Invalid)
	})

	t.Run("bad lines are reported", func(t *testing.T) {
		server, _ := setupTestServer(t, ServerConfig{})
		w, envelope := doCheck(t, server, "?policy=position", "1-9 a: abc\n")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, envelope.Data.Summary.Errors)
		assert.Equal(t, audit.OutcomeError, envelope.Data.Results[0].Outcome)
		assert.Contains(t, envelope.Data.Results[0].Error, "index out of range")
	})

	t.Run("stop on error", func(t *testing.T) {
		server, recorder := setupTestServer(t, ServerConfig{})
		w, envelope := doCheck(t, server, "?stop_on_error=true", "1-3 a: abcde\nbroken\n")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.False(t, envelope.Success)
		assert.Contains(t, envelope.Error, "line 2: malformed record")
		assert.Empty(t, recorder.saved)
	})

	t.Run("unknown policy", func(t *testing.T) {
		server, _ := setupTestServer(t, ServerConfig{})
		w, envelope := doCheck(t, server, "?policy=regex", sample)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, envelope.Error, "unknown policy")
	})

	t.Run("invalid stop_on_error", func(t *testing.T) {
		server, _ := setupTestServer(t, ServerConfig{})
		w, _ := doCheck(t, server, "?stop_on_error=maybe", sample)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		server, _ := setupTestServer(t, ServerConfig{MaxBodyBytes: 8})
		w, envelope := doCheck(t, server, "", sample)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Failed to read request body", envelope.Error)
	})

	t.Run("empty body", func(t *testing.T) {
		server, _ := setupTestServer(t, ServerConfig{})
		w, envelope := doCheck(t, server, "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, envelope.Data.Summary.Total)
		assert.NotNil(t, envelope.Data.Results)
	})

	t.Run("history failure does not fail request", func(t *testing.T) {
		server, recorder := setupTestServer(t, ServerConfig{})
		recorder.err = errors.New("disk full")
		w, envelope := doCheck(t, server, "", sample)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, envelope.Success)
	})
}
