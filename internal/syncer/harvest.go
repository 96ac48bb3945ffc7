package syncer

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"sync-service/internal/gateway"
	"sync-service/internal/identity"
	"sync-service/internal/observability"
	"sync-service/internal/repositories"
)

// HarvestResult reports one message-history harvest.
type HarvestResult struct {
	TotalFound int `json:"total_found"`
	Saved      int `json:"saved"`
	Skipped    int `json:"skipped"`
}

// HarvestMessages pulls a page of the gateway's persisted message log for a
// group and stores each record once. The group must already be known; a
// malformed record is counted as skipped and never stops the remainder.
func (s *Service) HarvestMessages(ctx context.Context, instance, groupJID string, limit, offset int) (HarvestResult, error) {
	group, err := s.groups.ByJID(ctx, groupJID)
	if err != nil {
		return HarvestResult{}, err
	}

	if limit <= 0 {
		limit = defaultHarvestLimit
	}
	records, err := s.gateway.ListMessages(ctx, instance, groupJID, limit, offset)
	if err != nil {
		observability.IncGatewayError()
		return HarvestResult{}, fmt.Errorf("list messages: %w", err)
	}

	result := HarvestResult{TotalFound: len(records)}
	for _, rec := range records {
		saved, err := s.storeMessage(ctx, group.ID, rec)
		if err != nil {
			observability.IncPassFailure("harvest")
			s.logger.Warn("failed to process message",
				zap.String("message_id", rec.Key.ID),
				zap.Error(err))
			result.Skipped++
			continue
		}
		if saved {
			result.Saved++
		} else {
			result.Skipped++
		}
	}

	observability.AddMessagesSaved(result.Saved)
	observability.AddMessagesSkipped(result.Skipped)
	s.emitter.Emit(ctx, "messages_harvested", instance, groupJID, map[string]any{
		"total_found": result.TotalFound,
		"saved":       result.Saved,
		"skipped":     result.Skipped,
	})
	return result, nil
}

// storeMessage applies the normalize → upsert member → insert message
// sequence for one raw record. It reports false without error for records
// that are skipped by policy (short body, duplicate id).
func (s *Service) storeMessage(ctx context.Context, groupID int, rec gateway.MessageRecord) (bool, error) {
	if rec.Key.ID == "" {
		return false, fmt.Errorf("message record missing id")
	}

	body, mediaType := rec.Message.Body()
	if utf8.RuneCountInString(body) < 2 {
		return false, nil
	}

	senderID := senderCanonicalID(rec.Key)
	if senderID == "" {
		return false, fmt.Errorf("message record missing sender")
	}

	trust := identity.TrustNone
	name := rec.PushName
	if name != "" {
		trust = identity.ClassifyName(name, senderID)
	}
	member, _, err := s.members.Upsert(ctx, senderID, name, trust)
	if err != nil {
		return false, fmt.Errorf("upsert sender: %w", err)
	}

	ts := time.Now().UTC()
	if rec.MessageTimestamp > 0 {
		ts = time.Unix(rec.MessageTimestamp, 0).UTC()
	}

	message, err := s.messages.Insert(ctx, repositories.InsertMessageParams{
		MessageJID: rec.Key.ID,
		GroupID:    groupID,
		SenderID:   member.ID,
		Content:    body,
		MediaType:  mediaType,
		FromMe:     rec.Key.FromMe,
		Timestamp:  ts,
	})
	if err != nil {
		return false, err
	}
	return message != nil, nil
}

// senderCanonicalID resolves the sender key for a message. Self-authored
// messages always map to the sentinel; everyone else is normalized from the
// participant or remote id, keeping the native form when normalization has
// nothing to work with.
func senderCanonicalID(key gateway.MessageKey) string {
	if key.FromMe {
		return identity.SelfSenderID
	}
	raw := key.Participant
	if raw == "" {
		raw = key.RemoteJID
	}
	if id, ok := identity.Canonical(identity.RawIdentity{JID: raw}); ok {
		return id
	}
	return raw
}
