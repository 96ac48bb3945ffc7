package syncer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"sync-service/internal/gateway"
	"sync-service/internal/identity"
	"sync-service/internal/observability"
)

// ErrNoParticipants is returned when the gateway reports no participants at
// all for a group. It is the only whole-pass failure of the rescue pass.
var ErrNoParticipants = errors.New("no participants found")

// RescueResult reports one deep participant sync.
type RescueResult struct {
	Fixed   int `json:"fixed"`
	Scanned int `json:"total_scanned"`
}

// RescueGroup performs the deep participant sync for one group: ensure the
// group row exists, fetch the full participant list, and for each participant
// upsert the member, link the membership, and try to rescue a display name at
// provisional trust. Per-participant anomalies are skipped individually; a
// gateway failure degrades to an empty list.
func (s *Service) RescueGroup(ctx context.Context, instance, groupJID string) (RescueResult, error) {
	inst, err := s.instances.GetOrCreate(ctx, instance)
	if err != nil {
		return RescueResult{}, fmt.Errorf("resolve instance %q: %w", instance, err)
	}

	groupID, err := s.groups.EnsureExists(ctx, groupJID, placeholderGroupName, inst.ID)
	if err != nil {
		return RescueResult{}, fmt.Errorf("ensure group %q: %w", groupJID, err)
	}

	info, err := s.gateway.GroupInfo(ctx, instance, groupJID)
	if err != nil {
		observability.IncGatewayError()
		s.logger.Warn("group info fetch failed, treating as empty",
			zap.String("group_jid", groupJID),
			zap.Error(err))
		info = gateway.GroupInfo{}
	}
	if len(info.Participants) == 0 {
		return RescueResult{}, ErrNoParticipants
	}

	result := RescueResult{Scanned: len(info.Participants)}
	for _, p := range info.Participants {
		canonicalID, ok := identity.Canonical(p.Identity())
		if !ok {
			observability.IncPassFailure("rescue")
			s.logger.Debug("skipping participant without usable identifier",
				zap.String("group_jid", groupJID),
				zap.String("raw_id", p.ID))
			continue
		}

		member, _, err := s.members.Upsert(ctx, canonicalID, "", identity.TrustNone)
		if err != nil {
			observability.IncPassFailure("rescue")
			s.logger.Warn("member upsert failed",
				zap.String("whatsapp_id", canonicalID),
				zap.Error(err))
			continue
		}

		linked, err := s.memberships.Link(ctx, groupID, member.ID, p.IsAdminMarker())
		if err != nil {
			observability.IncPassFailure("rescue")
			s.logger.Warn("membership link failed",
				zap.String("whatsapp_id", canonicalID),
				zap.Error(err))
			continue
		}
		if linked {
			result.Fixed++
		}

		if name := p.BestName(); identity.UsableName(name) {
			trust := identity.ClassifyName(name, canonicalID)
			if _, _, err := s.members.Upsert(ctx, canonicalID, name, trust); err != nil {
				s.logger.Warn("name rescue failed",
					zap.String("whatsapp_id", canonicalID),
					zap.Error(err))
			}
		}
	}

	s.emitter.Emit(ctx, "group_rescued", instance, groupJID, map[string]any{
		"fixed":   result.Fixed,
		"scanned": result.Scanned,
	})
	return result, nil
}
