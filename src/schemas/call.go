package schemas

// PacketPayload represents the request body for ingesting one packet.
type PacketPayload struct {
	Sequence  *int64  `json:"sequence" binding:"required,gte=0"`
	Data      string  `json:"data" binding:"required"`
	Timestamp float64 `json:"timestamp"`
}

// IngestResponse acknowledges an accepted packet. Ordering anomalies are
// deliberately not reported here; they are observability data only.
type IngestResponse struct {
	Status string `json:"status"`
}

// EndCallResponse represents the outcome of an end-of-call signal.
type EndCallResponse struct {
	Status string `json:"status"`
	State  string `json:"state"`
}

// CallResponse is the call snapshot returned by the read endpoint.
type CallResponse struct {
	CallID       string  `json:"call_id"`
	Status       string  `json:"status"`
	LastSequence int64   `json:"last_sequence"`
	Transcript   *string `json:"transcript,omitempty"`
	Sentiment    *string `json:"sentiment,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}
