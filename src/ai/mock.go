package ai

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// MockAnalyzer simulates the analysis service for local development.
// It fails with ErrUnavailable at the configured rate and otherwise returns
// a canned transcription after a short random latency.
type MockAnalyzer struct {
	// FailureRate is the probability in [0, 1) that a call fails transiently.
	FailureRate float64
}

// NewMockAnalyzer returns a mock with a 25% transient failure rate.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{FailureRate: 0.25}
}

// Analyze implements Analyzer.
func (m *MockAnalyzer) Analyze(ctx context.Context, text string) (*Result, error) {
	latency := time.Duration(1000+rand.Intn(2000)) * time.Millisecond
	slog.Info("Mock analyzer processing started", "latency", latency)

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if rand.Float64() < m.FailureRate {
		slog.Error("Mock analyzer simulated failure")
		return nil, ErrUnavailable
	}

	sentiments := []string{"positive", "neutral", "negative"}
	return &Result{
		Transcript: "This is a simulated transcription of the call segment.",
		Sentiment:  sentiments[rand.Intn(len(sentiments))],
	}, nil
}
