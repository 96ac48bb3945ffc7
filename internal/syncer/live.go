package syncer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sync-service/internal/gateway"
)

// WebhookEvent mirrors the gateway's webhook payload. The event name arrives
// under either "type" or "event" depending on gateway version, and the
// message sits one level down under data.data.
type WebhookEvent struct {
	Type  string `json:"type"`
	Event string `json:"event"`
	Data  struct {
		Data *gateway.MessageRecord `json:"data"`
	} `json:"data"`
}

// Kind folds the two event-name spellings.
func (e WebhookEvent) Kind() string {
	if e.Type != "" {
		return e.Type
	}
	return e.Event
}

// IngestLiveEvent processes one webhook event as a degenerate single-message
// harvest. Callers must acknowledge the upstream emitter regardless of the
// returned error; failures here are logged, never propagated upstream.
func (s *Service) IngestLiveEvent(ctx context.Context, event WebhookEvent) error {
	if event.Kind() != "messages.upsert" {
		s.logger.Debug("ignoring webhook event", zap.String("event", event.Kind()))
		return nil
	}

	msg := event.Data.Data
	if msg == nil {
		return nil
	}

	group, err := s.groups.ByJID(ctx, msg.Key.RemoteJID)
	if err != nil {
		return fmt.Errorf("resolve group %q: %w", msg.Key.RemoteJID, err)
	}

	saved, err := s.storeMessage(ctx, group.ID, *msg)
	if err != nil {
		return fmt.Errorf("store live message: %w", err)
	}
	if saved {
		s.logger.Info("saved live message",
			zap.String("group_jid", msg.Key.RemoteJID),
			zap.String("message_id", msg.Key.ID))
	}
	return nil
}
