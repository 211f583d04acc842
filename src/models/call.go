package models

import "time"

// Call represents one call's lifecycle from first packet to analysis outcome.
type Call struct {
	CallID       string    `json:"call_id"`
	Status       CallState `json:"status"`
	LastSequence int64     `json:"last_sequence"`
	Transcript   *string   `json:"transcript,omitempty"`
	Sentiment    *string   `json:"sentiment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Packet represents one streamed chunk of call data. Packets are append-only.
type Packet struct {
	PacketID   string    `json:"packet_id"`
	CallID     string    `json:"call_id"`
	Sequence   int64     `json:"sequence"`
	Data       string    `json:"data"`
	Timestamp  float64   `json:"timestamp"`
	ReceivedAt time.Time `json:"received_at"`
}
