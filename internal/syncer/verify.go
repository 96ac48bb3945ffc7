package syncer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"sync-service/internal/observability"
	"sync-service/internal/repositories"
)

// Verification statuses.
const (
	StatusMatched    = "MATCHED"
	StatusIncomplete = "INCOMPLETE"
)

// VerifyResult compares gateway-reported participants to stored memberships.
type VerifyResult struct {
	GatewayCount int    `json:"gateway_count"`
	StoredCount  int    `json:"db_count"`
	Status       string `json:"status"`
}

// VerifyGroupSync is the sync-verification diagnostic. A gateway failure
// degrades to zero participants found so the stored side still reports.
func (s *Service) VerifyGroupSync(ctx context.Context, instance, groupJID string) (VerifyResult, error) {
	participants, err := s.gateway.GroupParticipants(ctx, instance, groupJID)
	if err != nil {
		observability.IncGatewayError()
		s.logger.Warn("participant listing failed during verification",
			zap.String("group_jid", groupJID),
			zap.Error(err))
		participants = nil
	}

	stored := 0
	group, err := s.groups.ByJID(ctx, groupJID)
	switch {
	case err == nil:
		stored, err = s.memberships.CountForGroup(ctx, group.ID)
		if err != nil {
			return VerifyResult{}, err
		}
	case errors.Is(err, repositories.ErrGroupNotFound):
		// unknown group counts as zero stored members
	default:
		return VerifyResult{}, err
	}

	result := VerifyResult{
		GatewayCount: len(participants),
		StoredCount:  stored,
		Status:       StatusIncomplete,
	}
	if stored >= len(participants) {
		result.Status = StatusMatched
	}
	return result, nil
}
