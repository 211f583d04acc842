package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhinavmishra97/ai-call-processing-service/src/models"
)

// CallRegistry provides get-or-create resolution of call sessions on top of
// the store's atomic insert.
type CallRegistry struct {
	store CallStore
}

// NewCallRegistry creates a new call registry
func NewCallRegistry(store CallStore) *CallRegistry {
	return &CallRegistry{
		store: store,
	}
}

// Resolve returns the canonical call row for callID, creating it in the
// initial state if absent. Safe under concurrent invocation for the same
// unseen ID: losers of the creation race re-read the winner's row. Exactly
// one row exists per ID regardless of how many resolutions race.
func (r *CallRegistry) Resolve(ctx context.Context, callID string) (*models.Call, error) {
	call, err := r.store.GetCall(ctx, callID)
	if err == nil {
		return call, nil
	}
	if !errors.Is(err, models.ErrCallNotFound) {
		return nil, fmt.Errorf("failed to resolve call %s: %w", callID, err)
	}

	call, err = r.store.CreateCall(ctx, callID)
	if err == nil {
		return call, nil
	}
	if !errors.Is(err, models.ErrCallExists) {
		return nil, fmt.Errorf("failed to create call %s: %w", callID, err)
	}

	// Lost the creation race to a concurrent ingestor. Expected under load;
	// the winner's row is canonical.
	slog.Warn("Call creation race detected, re-reading winner's row", "call_id", callID)

	call, err = r.store.GetCall(ctx, callID)
	if err != nil {
		if errors.Is(err, models.ErrCallNotFound) {
			slog.Error("Call row missing after duplicate-key conflict", "call_id", callID)
			return nil, models.ErrRegistryInconsistent
		}
		return nil, fmt.Errorf("failed to re-read call %s after race: %w", callID, err)
	}

	return call, nil
}
