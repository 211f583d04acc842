package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhinavmishra97/ai-call-processing-service/src/db"
	"github.com/abhinavmishra97/ai-call-processing-service/src/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CallRepository handles all database operations for calls and packets
type CallRepository struct {
	db *db.DB
}

// NewCallRepository creates a new call repository
func NewCallRepository(database *db.DB) *CallRepository {
	return &CallRepository{
		db: database,
	}
}

const callColumns = `call_id, status, last_sequence, transcript, sentiment, created_at, updated_at`

func scanCall(row *sql.Row) (*models.Call, error) {
	var call models.Call
	err := row.Scan(
		&call.CallID,
		&call.Status,
		&call.LastSequence,
		&call.Transcript,
		&call.Sentiment,
		&call.CreatedAt,
		&call.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// GetCall retrieves a call by its external ID
func (r *CallRepository) GetCall(ctx context.Context, callID string) (*models.Call, error) {
	query := `
		SELECT ` + callColumns + `
		FROM calls
		WHERE call_id = $1
	`

	call, err := scanCall(r.db.GetConnection().QueryRowContext(ctx, query, callID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCallNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get call: %w", err)
	}

	return call, nil
}

// CreateCall inserts a new call row in the initial state. The calls table
// primary key makes the insert atomic: when a concurrent caller has already
// inserted the same ID, the unique violation is reported as ErrCallExists.
func (r *CallRepository) CreateCall(ctx context.Context, callID string) (*models.Call, error) {
	query := `
		INSERT INTO calls (call_id, status)
		VALUES ($1, $2)
		RETURNING ` + callColumns + `
	`

	call, err := scanCall(r.db.GetConnection().QueryRowContext(ctx, query, callID, models.StateActive))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, models.ErrCallExists
		}
		return nil, fmt.Errorf("failed to create call: %w", err)
	}

	slog.Info("Created new call", "call_id", call.CallID)

	return call, nil
}

// InsertPacket appends a packet row. Packets are never updated or deleted.
func (r *CallRepository) InsertPacket(ctx context.Context, packet *models.Packet) error {
	if packet.PacketID == "" {
		packet.PacketID = uuid.New().String()
	}

	query := `
		INSERT INTO packets (packet_id, call_id, sequence, data, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING received_at
	`

	err := r.db.GetConnection().QueryRowContext(
		ctx,
		query,
		packet.PacketID,
		packet.CallID,
		packet.Sequence,
		packet.Data,
		packet.Timestamp,
	).Scan(&packet.ReceivedAt)
	if err != nil {
		return fmt.Errorf("failed to insert packet: %w", err)
	}

	return nil
}

// ListPackets returns all packets for a call in ascending sequence order.
func (r *CallRepository) ListPackets(ctx context.Context, callID string) ([]models.Packet, error) {
	query := `
		SELECT packet_id, call_id, sequence, data, timestamp, received_at
		FROM packets
		WHERE call_id = $1
		ORDER BY sequence ASC
	`

	rows, err := r.db.GetConnection().QueryContext(ctx, query, callID)
	if err != nil {
		return nil, fmt.Errorf("failed to list packets: %w", err)
	}
	defer rows.Close()

	var packets []models.Packet
	for rows.Next() {
		var p models.Packet
		if err := rows.Scan(&p.PacketID, &p.CallID, &p.Sequence, &p.Data, &p.Timestamp, &p.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan packet: %w", err)
		}
		packets = append(packets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate packets: %w", err)
	}

	return packets, nil
}

// AdvanceWatermark raises the call's last_sequence to sequence if and only if
// it is currently smaller. The conditional UPDATE is the compare-and-set that
// keeps the watermark monotone under concurrent ingestion; zero rows affected
// means a higher sequence was already recorded, which is not an error.
func (r *CallRepository) AdvanceWatermark(ctx context.Context, callID string, sequence int64) error {
	query := `
		UPDATE calls
		SET last_sequence = $2, updated_at = now()
		WHERE call_id = $1 AND last_sequence < $2
	`

	_, err := r.db.GetConnection().ExecContext(ctx, query, callID, sequence)
	if err != nil {
		return fmt.Errorf("failed to advance watermark: %w", err)
	}

	return nil
}

// TransitionState moves a call from one state to another with a conditional
// UPDATE. It returns false when the call was not in the expected source state,
// so two concurrent mutators can never both apply the same transition.
func (r *CallRepository) TransitionState(ctx context.Context, callID string, from, to models.CallState) (bool, error) {
	if !from.CanTransition(to) {
		return false, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, from, to)
	}

	query := `
		UPDATE calls
		SET status = $3, updated_at = now()
		WHERE call_id = $1 AND status = $2
	`

	result, err := r.db.GetConnection().ExecContext(ctx, query, callID, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to update call status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return false, nil
	}

	slog.Info("Updated call status",
		"call_id", callID,
		"from", from,
		"to", to)

	return true, nil
}

// ArchiveWithResult attaches the analysis result and moves the call from
// PROCESSING_AI to ARCHIVED in a single conditional UPDATE.
func (r *CallRepository) ArchiveWithResult(ctx context.Context, callID string, transcript, sentiment string) (bool, error) {
	query := `
		UPDATE calls
		SET status = $2, transcript = $3, sentiment = $4, updated_at = now()
		WHERE call_id = $1 AND status = $5
	`

	result, err := r.db.GetConnection().ExecContext(
		ctx,
		query,
		callID,
		models.StateArchived,
		transcript,
		sentiment,
		models.StateAnalyzing,
	)
	if err != nil {
		return false, fmt.Errorf("failed to archive call: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return false, nil
	}

	slog.Info("Archived call with analysis result", "call_id", callID)

	return true, nil
}
