package syncer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"sync-service/internal/identity"
)

// MemberInjection is one row of an authoritative member batch.
type MemberInjection struct {
	WhatsAppID  string `json:"whatsapp_id"`
	DisplayName string `json:"display_name"`
}

// InjectResult reports one injection batch.
type InjectResult struct {
	Processed    int `json:"processed"`
	UpdatedNames int `json:"updated_names"`
}

// InjectMembers applies an operator-provided member batch to a group. Names
// land at confirmed trust, so no later sync pass can downgrade them. Rows
// with malformed identifiers are skipped silently, matching the batch tooling
// that feeds this endpoint.
func (s *Service) InjectMembers(ctx context.Context, groupJID string, members []MemberInjection) (InjectResult, error) {
	group, err := s.groups.ByJID(ctx, groupJID)
	if err != nil {
		return InjectResult{}, err
	}

	var result InjectResult
	for _, m := range members {
		if !strings.Contains(m.WhatsAppID, identity.DomainSuffix) {
			continue
		}

		name := m.DisplayName
		if !identity.UsableName(name) {
			name = ""
		}
		member, applied, err := s.members.Upsert(ctx, m.WhatsAppID, name, identity.TrustConfirmed)
		if err != nil {
			s.logger.Warn("inject member upsert failed",
				zap.String("whatsapp_id", m.WhatsAppID),
				zap.Error(err))
			continue
		}
		if applied {
			result.UpdatedNames++
		}

		if _, err := s.memberships.Link(ctx, group.ID, member.ID, false); err != nil {
			s.logger.Warn("inject membership link failed",
				zap.String("whatsapp_id", m.WhatsAppID),
				zap.Error(err))
			continue
		}
		result.Processed++
	}

	s.logger.Info("member injection complete",
		zap.String("group_jid", groupJID),
		zap.Int("processed", result.Processed),
		zap.Int("updated_names", result.UpdatedNames))
	return result, nil
}
