package service

import (
	"context"

	"github.com/abhinavmishra97/ai-call-processing-service/src/models"
)

// CallStore is the narrow storage contract the services depend on. The
// repository package implements it over PostgreSQL; tests substitute an
// in-memory fake. Correctness of the concurrent paths relies on the three
// atomic primitives: insert-or-fail-on-duplicate (CreateCall), the watermark
// compare-and-set (AdvanceWatermark), and conditional state updates
// (TransitionState, ArchiveWithResult).
type CallStore interface {
	// GetCall returns the call or models.ErrCallNotFound.
	GetCall(ctx context.Context, callID string) (*models.Call, error)

	// CreateCall atomically inserts a call in the initial state, returning
	// models.ErrCallExists when another caller inserted the same ID first.
	CreateCall(ctx context.Context, callID string) (*models.Call, error)

	// InsertPacket appends a packet row.
	InsertPacket(ctx context.Context, packet *models.Packet) error

	// ListPackets returns a call's packets in ascending sequence order.
	ListPackets(ctx context.Context, callID string) ([]models.Packet, error)

	// AdvanceWatermark raises last_sequence to sequence only if it is
	// currently smaller (compare-and-set max).
	AdvanceWatermark(ctx context.Context, callID string, sequence int64) error

	// TransitionState applies from -> to conditionally and reports whether
	// the update was applied.
	TransitionState(ctx context.Context, callID string, from, to models.CallState) (bool, error)

	// ArchiveWithResult attaches the analysis result while moving the call
	// from PROCESSING_AI to ARCHIVED.
	ArchiveWithResult(ctx context.Context, callID string, transcript, sentiment string) (bool, error)
}

// Notifier receives lifecycle events. Delivery is best-effort: implementations
// must never block their caller or propagate failures back into it.
type Notifier interface {
	NotifyStateChange(callID string, state models.CallState, data map[string]string)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) NotifyStateChange(string, models.CallState, map[string]string) {}
