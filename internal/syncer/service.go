// Package syncer implements the reconciliation passes that pull group,
// participant and message data out of the messaging gateway and fold it into
// the canonical store. Every write is idempotent; overlapping passes over the
// same group are safe without locks.
package syncer

import (
	"go.uber.org/zap"

	"sync-service/internal/gateway"
	"sync-service/internal/repositories"
	"sync-service/internal/telemetry"
)

// placeholderGroupName is stored when a pass references a group it has never
// seen metadata for. The next metadata sync replaces it.
const placeholderGroupName = "Synced Group"

const defaultHarvestLimit = 100

// Service runs the reconciliation passes against the injected gateway client
// and store repositories.
type Service struct {
	gateway     gateway.Client
	instances   repositories.InstanceRepository
	groups      repositories.GroupRepository
	members     repositories.MemberRepository
	memberships repositories.MembershipRepository
	messages    repositories.MessageRepository
	emitter     *telemetry.EventEmitter
	logger      *zap.Logger
}

// NewService constructs a Service.
func NewService(
	gatewayClient gateway.Client,
	instances repositories.InstanceRepository,
	groups repositories.GroupRepository,
	members repositories.MemberRepository,
	memberships repositories.MembershipRepository,
	messages repositories.MessageRepository,
	emitter *telemetry.EventEmitter,
	logger *zap.Logger,
) *Service {
	return &Service{
		gateway:     gatewayClient,
		instances:   instances,
		groups:      groups,
		members:     members,
		memberships: memberships,
		messages:    messages,
		emitter:     emitter,
		logger:      logger,
	}
}

func groupName(subject string) string {
	if subject == "" {
		return "Unknown Group"
	}
	return subject
}
