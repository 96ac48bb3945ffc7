package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sync-service/internal/gateway"
	"sync-service/internal/identity"
	"sync-service/internal/models"
	"sync-service/internal/repositories"
)

type GatewayClientMock struct {
	mock.Mock
}

var _ gateway.Client = (*GatewayClientMock)(nil)

func (m *GatewayClientMock) ListGroups(ctx context.Context, instance string, includeParticipants bool) ([]gateway.Group, error) {
	args := m.Called(ctx, instance, includeParticipants)
	var groups []gateway.Group
	if val := args.Get(0); val != nil {
		groups = val.([]gateway.Group)
	}
	return groups, args.Error(1)
}

func (m *GatewayClientMock) GroupInfo(ctx context.Context, instance, groupJID string) (gateway.GroupInfo, error) {
	args := m.Called(ctx, instance, groupJID)
	var info gateway.GroupInfo
	if val := args.Get(0); val != nil {
		info = val.(gateway.GroupInfo)
	}
	return info, args.Error(1)
}

func (m *GatewayClientMock) GroupParticipants(ctx context.Context, instance, groupJID string) ([]gateway.Participant, error) {
	args := m.Called(ctx, instance, groupJID)
	var participants []gateway.Participant
	if val := args.Get(0); val != nil {
		participants = val.([]gateway.Participant)
	}
	return participants, args.Error(1)
}

func (m *GatewayClientMock) ListMessages(ctx context.Context, instance, groupJID string, limit, offset int) ([]gateway.MessageRecord, error) {
	args := m.Called(ctx, instance, groupJID, limit, offset)
	var records []gateway.MessageRecord
	if val := args.Get(0); val != nil {
		records = val.([]gateway.MessageRecord)
	}
	return records, args.Error(1)
}

type InstanceRepositoryMock struct {
	mock.Mock
}

var _ repositories.InstanceRepository = (*InstanceRepositoryMock)(nil)

func (m *InstanceRepositoryMock) GetOrCreate(ctx context.Context, name string) (models.Instance, error) {
	args := m.Called(ctx, name)
	var instance models.Instance
	if val := args.Get(0); val != nil {
		instance = val.(models.Instance)
	}
	return instance, args.Error(1)
}

type GroupRepositoryMock struct {
	mock.Mock
}

var _ repositories.GroupRepository = (*GroupRepositoryMock)(nil)

func (m *GroupRepositoryMock) Upsert(ctx context.Context, params repositories.UpsertGroupParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}

func (m *GroupRepositoryMock) EnsureExists(ctx context.Context, groupJID, placeholderName string, instanceID int) (int, error) {
	args := m.Called(ctx, groupJID, placeholderName, instanceID)
	return args.Int(0), args.Error(1)
}

func (m *GroupRepositoryMock) ByJID(ctx context.Context, groupJID string) (models.Group, error) {
	args := m.Called(ctx, groupJID)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) DeactivateAbsent(ctx context.Context, instanceID int, seenJIDs []string) (int64, error) {
	args := m.Called(ctx, instanceID, seenJIDs)
	return args.Get(0).(int64), args.Error(1)
}

type MemberRepositoryMock struct {
	mock.Mock
}

var _ repositories.MemberRepository = (*MemberRepositoryMock)(nil)

func (m *MemberRepositoryMock) Upsert(ctx context.Context, canonicalID, name string, trust identity.Trust) (models.Member, bool, error) {
	args := m.Called(ctx, canonicalID, name, trust)
	var member models.Member
	if val := args.Get(0); val != nil {
		member = val.(models.Member)
	}
	return member, args.Bool(1), args.Error(2)
}

type MembershipRepositoryMock struct {
	mock.Mock
}

var _ repositories.MembershipRepository = (*MembershipRepositoryMock)(nil)

func (m *MembershipRepositoryMock) Link(ctx context.Context, groupID, memberID int, isAdmin bool) (bool, error) {
	args := m.Called(ctx, groupID, memberID, isAdmin)
	return args.Bool(0), args.Error(1)
}

func (m *MembershipRepositoryMock) CountForGroup(ctx context.Context, groupID int) (int, error) {
	args := m.Called(ctx, groupID)
	return args.Int(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)

func (m *MessageRepositoryMock) Insert(ctx context.Context, params repositories.InsertMessageParams) (*models.Message, error) {
	args := m.Called(ctx, params)
	var message *models.Message
	if val := args.Get(0); val != nil {
		message = val.(*models.Message)
	}
	return message, args.Error(1)
}
