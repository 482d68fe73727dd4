package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/deckhand-io/deckhand/internal/domain"
)

// recordEvent appends an audit event. Auditing is best effort: failures are
// logged and never interrupt the turn.
func (s *Service) recordEvent(ctx context.Context, requestID string, eventType domain.EventType, payload interface{}) {
	if s.audit == nil {
		return
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("WARN: failed to marshal %s audit payload: %v", eventType, err)
		return
	}

	event := &domain.AuditEvent{
		EventID:   "evt_" + uuid.New().String()[:8],
		RequestID: requestID,
		TS:        time.Now().UnixMilli(),
		Type:      eventType,
		Payload:   payloadBytes,
	}
	if err := s.audit.RecordEvent(ctx, event); err != nil {
		log.Printf("WARN: failed to record %s audit event: %v", eventType, err)
	}
}
