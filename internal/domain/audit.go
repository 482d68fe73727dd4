package domain

import "encoding/json"

// AuditEvent is one write-only audit trail entry. The trail is never read
// back into conversation state; all conversational state lives in the
// replayed message array.
type AuditEvent struct {
	EventID   string          `json:"event_id"`
	RequestID string          `json:"request_id"`
	TS        int64           `json:"ts"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
