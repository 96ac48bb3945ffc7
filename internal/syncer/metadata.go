package syncer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sync-service/internal/observability"
	"sync-service/internal/repositories"
)

// MetadataResult reports one metadata sync pass.
type MetadataResult struct {
	Fetched int `json:"total_fetched"`
	Synced  int `json:"synced"`
}

// SyncGroupMetadata fetches all groups of an instance (names, descriptions
// and size estimates only) and upserts each. A single bad group is logged and
// skipped, never failing the pass. After a fully successful pass, groups the
// gateway no longer reports are soft-deactivated.
func (s *Service) SyncGroupMetadata(ctx context.Context, instance string) (MetadataResult, error) {
	inst, err := s.instances.GetOrCreate(ctx, instance)
	if err != nil {
		return MetadataResult{}, fmt.Errorf("resolve instance %q: %w", instance, err)
	}

	groups, err := s.gateway.ListGroups(ctx, instance, false)
	if err != nil {
		observability.IncGatewayError()
		return MetadataResult{}, fmt.Errorf("list groups: %w", err)
	}

	result := MetadataResult{Fetched: len(groups)}
	seen := make([]string, 0, len(groups))
	for _, g := range groups {
		params := repositories.UpsertGroupParams{
			GroupJID:         g.ID,
			Name:             groupName(g.Subject),
			Description:      g.Description,
			ParticipantCount: g.Size,
			InstanceID:       inst.ID,
		}
		if _, err := s.groups.Upsert(ctx, params); err != nil {
			observability.IncPassFailure("metadata")
			s.logger.Warn("failed to save group",
				zap.String("group_jid", g.ID),
				zap.String("subject", g.Subject),
				zap.Error(err))
			continue
		}
		seen = append(seen, g.ID)
		result.Synced++
	}
	observability.AddGroupsSynced(result.Synced)

	// only sweep when every fetched group landed, so a store hiccup cannot
	// deactivate live groups
	if result.Synced == result.Fetched {
		if n, err := s.groups.DeactivateAbsent(ctx, inst.ID, seen); err != nil {
			s.logger.Warn("deactivation sweep failed", zap.Error(err))
		} else if n > 0 {
			s.logger.Info("deactivated groups missing from gateway",
				zap.String("instance", instance),
				zap.Int64("count", n))
		}
	}

	s.emitter.Emit(ctx, "group_metadata_synced", instance, "", map[string]any{
		"fetched": result.Fetched,
		"synced":  result.Synced,
	})
	return result, nil
}
