package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnavailable is returned when the analysis service is temporarily down.
// It is the only failure kind the processing pipeline retries.
var ErrUnavailable = errors.New("analysis service temporarily unavailable")

// Result carries the output of a successful analysis.
type Result struct {
	Transcript string `json:"transcript"`
	Sentiment  string `json:"sentiment"`
}

// Analyzer is the external analysis capability consumed by the pipeline.
// Implementations must return an error wrapping ErrUnavailable for transient
// outages; any other error is treated as fatal and not retried.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Result, error)
}

// HTTPAnalyzer calls the analyzer service over HTTP.
type HTTPAnalyzer struct {
	baseURL string
	client  *http.Client
}

// NewHTTPAnalyzer creates an analyzer client for the given service address.
func NewHTTPAnalyzer(addr string) *HTTPAnalyzer {
	return &HTTPAnalyzer{
		baseURL: addr,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// Analyze posts the aggregated call text to the analyzer service.
// 5xx responses and network errors are reported as ErrUnavailable so the
// caller's retry policy can kick in; 4xx responses are fatal.
func (a *HTTPAnalyzer) Analyze(ctx context.Context, text string) (*Result, error) {
	payload, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/analyze", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var result Result
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("failed to decode analyzer response: %w", err)
		}
		return &result, nil

	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: analyzer returned %d: %s", ErrUnavailable, resp.StatusCode, string(body))

	default:
		return nil, fmt.Errorf("analyzer rejected request with %d: %s", resp.StatusCode, string(body))
	}
}
