package service

import (
	"context"
	"log/slog"

	"github.com/abhinavmishra97/ai-call-processing-service/src/models"
)

// End-of-call outcomes reported to the caller.
const (
	StatusProcessingInitiated = "processing_initiated"
	StatusAlreadyCompleted    = "already_completed"
)

// EndCallOutcome describes what an end-of-call signal did.
type EndCallOutcome struct {
	Status string           `json:"status"`
	State  models.CallState `json:"state"`
}

// CallService owns the end-of-call transition and hands completed calls to
// the background processor.
type CallService struct {
	store     CallStore
	notifier  Notifier
	processor *Processor
}

// NewCallService creates a new call service
func NewCallService(store CallStore, notifier Notifier, processor *Processor) *CallService {
	return &CallService{
		store:     store,
		notifier:  notifier,
		processor: processor,
	}
}

// GetCall returns the current call snapshot, including the asynchronous
// processing outcome once the pipeline has finished.
func (s *CallService) GetCall(ctx context.Context, callID string) (*models.Call, error) {
	return s.store.GetCall(ctx, callID)
}

// EndCall signals end-of-call. The IN_PROGRESS -> COMPLETED transition is a
// conditional update, so exactly one of any number of concurrent signals wins
// and schedules the processing pipeline; the rest observe an already-ended
// call and report it idempotently. The pipeline runs on its own goroutine,
// decoupled from the request that triggered it: only the call ID crosses the
// boundary, never a live resource.
func (s *CallService) EndCall(ctx context.Context, callID string) (*EndCallOutcome, error) {
	call, err := s.store.GetCall(ctx, callID)
	if err != nil {
		return nil, err
	}

	applied, err := s.store.TransitionState(ctx, callID, models.StateActive, models.StateEnded)
	if err != nil {
		return nil, err
	}

	if !applied {
		// Repeat signal on a call that already left IN_PROGRESS. Not an
		// error; report the state it is in now.
		current, err := s.store.GetCall(ctx, callID)
		if err != nil {
			return nil, err
		}
		slog.Info("End-of-call signal on already completed call",
			"call_id", callID,
			"state", current.Status)
		return &EndCallOutcome{Status: StatusAlreadyCompleted, State: current.Status}, nil
	}

	slog.Info("Call ended, scheduling background processing", "call_id", callID)
	s.notifier.NotifyStateChange(callID, models.StateEnded, nil)

	go s.processor.Run(call.CallID)

	return &EndCallOutcome{Status: StatusProcessingInitiated, State: models.StateEnded}, nil
}
