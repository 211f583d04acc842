package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPAnalyzer_Success(t *testing.T) {
	var gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/analyze", r.URL.Path)

		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotText = req.Text

		json.NewEncoder(w).Encode(Result{Transcript: "a transcript", Sentiment: "neutral"})
	}))
	defer server.Close()

	analyzer := NewHTTPAnalyzer(server.URL)
	result, err := analyzer.Analyze(context.Background(), "chunk one chunk two")
	require.NoError(t, err)
	assert.Equal(t, "chunk one chunk two", gotText)
	assert.Equal(t, "a transcript", result.Transcript)
	assert.Equal(t, "neutral", result.Sentiment)
}

func TestHTTPAnalyzer_ServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	analyzer := NewHTTPAnalyzer(server.URL)
	_, err := analyzer.Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestHTTPAnalyzer_ConnectionErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // nothing is listening anymore

	analyzer := NewHTTPAnalyzer(server.URL)
	_, err := analyzer.Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestHTTPAnalyzer_ClientErrorIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "text too long", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	analyzer := NewHTTPAnalyzer(server.URL)
	_, err := analyzer.Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable), "4xx must not be retried")
}
