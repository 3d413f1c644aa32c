package payauth

import (
	"context"
	"time"

	"github.com/swiftgate/payauth/internal/audit"
)

// emit queues an audit event without blocking the request path. Error text
// is the sentinel's message only; credential material never enters metadata.
func (e *Engine) emit(ctx context.Context, eventType, userID, ip string, success bool, cause error, metadata map[string]string) {
	if e == nil || e.audit == nil {
		return
	}

	event := audit.Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		IP:        ip,
		Success:   success,
		Metadata:  metadata,
	}
	if cause != nil {
		event.Error = cause.Error()
	}

	e.audit.Emit(ctx, event)
}
