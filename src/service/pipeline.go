package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhinavmishra97/ai-call-processing-service/src/ai"
	"github.com/abhinavmishra97/ai-call-processing-service/src/models"
	"github.com/abhinavmishra97/ai-call-processing-service/src/retry"
)

// Processor runs the post-call analysis pipeline: COMPLETED -> PROCESSING_AI,
// aggregate packets, call the analyzer under bounded retry, then land on
// ARCHIVED or FAILED. A run is fire-and-forget; its errors never reach the
// request that scheduled it.
type Processor struct {
	store    CallStore
	analyzer ai.Analyzer
	notifier Notifier
	retry    retry.Config

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(time.Duration)
}

// NewProcessor creates a new processor
func NewProcessor(store CallStore, analyzer ai.Analyzer, notifier Notifier, cfg retry.Config) *Processor {
	cfg.ApplyDefaults()
	return &Processor{
		store:    store,
		analyzer: analyzer,
		notifier: notifier,
		retry:    cfg,
		sleep:    time.Sleep,
	}
}

// processingAttempt is the per-run retry bookkeeping. It never outlives the
// run that owns it.
type processingAttempt struct {
	number  int
	waited  time.Duration
	lastErr error
}

// Run processes one completed call to a terminal state. It acquires its own
// context instead of borrowing the triggering request's, which is already
// released by the time the run starts.
func (p *Processor) Run(callID string) {
	ctx := context.Background()

	call, err := p.store.GetCall(ctx, callID)
	if err != nil {
		if errors.Is(err, models.ErrCallNotFound) {
			slog.Error("Call not found for processing", "call_id", callID)
			return
		}
		slog.Error("Failed to load call for processing", "call_id", callID, "error", err)
		return
	}

	applied, err := p.store.TransitionState(ctx, callID, models.StateEnded, models.StateAnalyzing)
	if err != nil {
		slog.Error("Failed to mark call as processing", "call_id", call.CallID, "error", err)
		return
	}
	if !applied {
		slog.Warn("Call no longer awaiting processing, skipping run",
			"call_id", call.CallID)
		return
	}
	p.notifier.NotifyStateChange(call.CallID, models.StateAnalyzing, nil)

	// From here the call is PROCESSING_AI and must reach a terminal state no
	// matter what happens below.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Unexpected panic during call processing",
				"call_id", callID,
				"panic", r)
			p.fail(ctx, callID, fmt.Errorf("panic: %v", r))
		}
	}()

	result, err := p.analyze(ctx, call.CallID)
	if err != nil {
		slog.Error("Call analysis failed", "call_id", call.CallID, "error", err)
		p.fail(ctx, call.CallID, err)
		return
	}

	archived, err := p.store.ArchiveWithResult(ctx, call.CallID, result.Transcript, result.Sentiment)
	if err != nil {
		slog.Error("Failed to store analysis result", "call_id", call.CallID, "error", err)
		p.fail(ctx, call.CallID, err)
		return
	}
	if !archived {
		slog.Error("Call left PROCESSING_AI before result could be attached", "call_id", call.CallID)
		return
	}

	slog.Info("Successfully processed call", "call_id", call.CallID)
	p.notifier.NotifyStateChange(call.CallID, models.StateArchived, map[string]string{
		"sentiment": result.Sentiment,
	})
}

// analyze aggregates the call's packets in sequence order and invokes the
// analyzer under the bounded retry policy. Only ai.ErrUnavailable is retried;
// any other failure kind is fatal on the spot.
func (p *Processor) analyze(ctx context.Context, callID string) (*ai.Result, error) {
	packets, err := p.store.ListPackets(ctx, callID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate packets: %w", err)
	}

	chunks := make([]string, 0, len(packets))
	for _, packet := range packets {
		chunks = append(chunks, packet.Data)
	}
	fullText := strings.Join(chunks, " ")

	attempt := processingAttempt{}
	for attempt.number = 1; attempt.number <= p.retry.MaxAttempts; attempt.number++ {
		result, err := p.analyzer.Analyze(ctx, fullText)
		if err == nil {
			if attempt.number > 1 {
				slog.Info("Analyzer recovered after retries",
					"call_id", callID,
					"attempts", attempt.number,
					"waited", attempt.waited)
			}
			return result, nil
		}

		attempt.lastErr = err
		if !errors.Is(err, ai.ErrUnavailable) {
			return nil, fmt.Errorf("analyzer returned fatal error: %w", err)
		}

		if attempt.number == p.retry.MaxAttempts {
			break
		}

		delay := p.retry.Delay(attempt.number)
		attempt.waited += delay
		slog.Warn("Analyzer unavailable, backing off",
			"call_id", callID,
			"attempt", attempt.number,
			"delay", delay)
		p.sleep(delay)
	}

	return nil, fmt.Errorf("analyzer unavailable after %d attempts (waited %s): %w",
		p.retry.MaxAttempts, attempt.waited, attempt.lastErr)
}

// fail forces the FAILED terminal state so a call is never stranded in
// PROCESSING_AI. Any partial result is discarded.
func (p *Processor) fail(ctx context.Context, callID string, cause error) {
	applied, err := p.store.TransitionState(ctx, callID, models.StateAnalyzing, models.StateFailed)
	if err != nil {
		slog.Error("Failed to mark call as failed",
			"call_id", callID,
			"cause", cause,
			"error", err)
		return
	}
	if applied {
		p.notifier.NotifyStateChange(callID, models.StateFailed, map[string]string{
			"reason": cause.Error(),
		})
	}
}
