package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhinavmishra97/ai-call-processing-service/src/models"
)

// PacketIngestor records streamed packets and maintains the per-call sequence
// watermark.
type PacketIngestor struct {
	store    CallStore
	registry *CallRegistry
}

// NewPacketIngestor creates a new packet ingestor
func NewPacketIngestor(store CallStore, registry *CallRegistry) *PacketIngestor {
	return &PacketIngestor{
		store:    store,
		registry: registry,
	}
}

// Ingest accepts one packet for a call, creating the call on its first
// packet. A sequence gap is logged as an ordering anomaly but never rejects
// the packet; there is no buffering or reordering. The watermark is advanced
// through the store's compare-and-set so that concurrent ingestors converge
// on the true maximum whatever the arrival interleaving.
func (i *PacketIngestor) Ingest(ctx context.Context, callID string, sequence int64, data string, timestamp float64) error {
	call, err := i.registry.Resolve(ctx, callID)
	if err != nil {
		return err
	}

	expected := call.LastSequence + 1
	if sequence != expected {
		slog.Warn("Packet sequence mismatch",
			"call_id", callID,
			"expected", expected,
			"got", sequence)
	}

	packet := &models.Packet{
		CallID:    callID,
		Sequence:  sequence,
		Data:      data,
		Timestamp: timestamp,
	}
	if err := i.store.InsertPacket(ctx, packet); err != nil {
		return fmt.Errorf("failed to store packet for call %s: %w", callID, err)
	}

	if err := i.store.AdvanceWatermark(ctx, callID, sequence); err != nil {
		return fmt.Errorf("failed to advance watermark for call %s: %w", callID, err)
	}

	return nil
}
