package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sync-service/internal/syncer"
)

type SyncServiceMock struct {
	mock.Mock
}

func (m *SyncServiceMock) SyncGroupMetadata(ctx context.Context, instance string) (syncer.MetadataResult, error) {
	args := m.Called(ctx, instance)
	var result syncer.MetadataResult
	if val := args.Get(0); val != nil {
		result = val.(syncer.MetadataResult)
	}
	return result, args.Error(1)
}

func (m *SyncServiceMock) RescueGroup(ctx context.Context, instance, groupJID string) (syncer.RescueResult, error) {
	args := m.Called(ctx, instance, groupJID)
	var result syncer.RescueResult
	if val := args.Get(0); val != nil {
		result = val.(syncer.RescueResult)
	}
	return result, args.Error(1)
}

func (m *SyncServiceMock) HarvestMessages(ctx context.Context, instance, groupJID string, limit, offset int) (syncer.HarvestResult, error) {
	args := m.Called(ctx, instance, groupJID, limit, offset)
	var result syncer.HarvestResult
	if val := args.Get(0); val != nil {
		result = val.(syncer.HarvestResult)
	}
	return result, args.Error(1)
}

func (m *SyncServiceMock) PlanFullSync(ctx context.Context, instance string) (syncer.FullSyncPlan, error) {
	args := m.Called(ctx, instance)
	var plan syncer.FullSyncPlan
	if val := args.Get(0); val != nil {
		plan = val.(syncer.FullSyncPlan)
	}
	return plan, args.Error(1)
}

func (m *SyncServiceMock) IngestLiveEvent(ctx context.Context, event syncer.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *SyncServiceMock) InjectMembers(ctx context.Context, groupJID string, members []syncer.MemberInjection) (syncer.InjectResult, error) {
	args := m.Called(ctx, groupJID, members)
	var result syncer.InjectResult
	if val := args.Get(0); val != nil {
		result = val.(syncer.InjectResult)
	}
	return result, args.Error(1)
}

func (m *SyncServiceMock) VerifyGroupSync(ctx context.Context, instance, groupJID string) (syncer.VerifyResult, error) {
	args := m.Called(ctx, instance, groupJID)
	var result syncer.VerifyResult
	if val := args.Get(0); val != nil {
		result = val.(syncer.VerifyResult)
	}
	return result, args.Error(1)
}

type BatchSubmitterMock struct {
	mock.Mock
}

func (m *BatchSubmitterMock) Submit(job syncer.BatchJob) error {
	args := m.Called(job)
	return args.Error(0)
}
