package syncer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sync-service/internal/gateway"
	"sync-service/internal/identity"
	"sync-service/internal/models"
)

func TestPlanFullSync(t *testing.T) {
	svc, m := newTestService()

	groups := []gateway.Group{{ID: "g1@g.us"}, {ID: "g2@g.us"}}
	m.instances.On("GetOrCreate", mock.Anything, "main").
		Return(models.Instance{ID: 1, Name: "main"}, nil).Once()
	m.gateway.On("ListGroups", mock.Anything, "main", false).Return(groups, nil).Once()

	plan, err := svc.PlanFullSync(context.Background(), "main")
	require.NoError(t, err)
	require.Equal(t, FullSyncPlan{Instance: "main", InstanceID: 1, Groups: groups}, plan)
	m.assertExpectations(t)
}

func TestPlanFullSyncListError(t *testing.T) {
	svc, m := newTestService()

	m.instances.On("GetOrCreate", mock.Anything, "main").
		Return(models.Instance{ID: 1, Name: "main"}, nil).Once()
	m.gateway.On("ListGroups", mock.Anything, "main", false).
		Return(([]gateway.Group)(nil), assert.AnError).Once()

	_, err := svc.PlanFullSync(context.Background(), "main")
	require.Error(t, err)
	m.assertExpectations(t)
}

func TestBatchWorkerContinuesPastFailedGroup(t *testing.T) {
	svc, m := newTestService()

	var groups []gateway.Group
	for i := 1; i <= 3; i++ {
		groups = append(groups, gateway.Group{
			ID:      fmt.Sprintf("g%d@g.us", i),
			Subject: fmt.Sprintf("Group %d", i),
		})
	}

	m.groups.On("Upsert", mock.Anything, mock.Anything).Return(10, nil).Times(3)
	m.instances.On("GetOrCreate", mock.Anything, "main").
		Return(models.Instance{ID: 1, Name: "main"}, nil).Times(3)
	m.groups.On("EnsureExists", mock.Anything, mock.Anything, "Synced Group", 1).Return(9, nil).Times(3)

	// the middle group's deep sync fails; the run must reach the third
	m.gateway.On("GroupInfo", mock.Anything, "main", "g2@g.us").
		Return(gateway.GroupInfo{}, assert.AnError).Once()
	m.gateway.On("GroupInfo", mock.Anything, "main", mock.Anything).Return(gateway.GroupInfo{
		Participants: []gateway.Participant{{ID: "27821234567@s.whatsapp.net"}},
	}, nil).Twice()
	m.members.On("Upsert", mock.Anything, "27821234567@s.whatsapp.net", "", identity.TrustNone).
		Return(models.Member{ID: 5, WhatsAppID: "27821234567@s.whatsapp.net"}, false, nil).Twice()
	m.memberships.On("Link", mock.Anything, 9, 5, false).Return(true, nil).Twice()

	worker := NewBatchWorker(svc, 0, zap.NewNop())
	worker.Start(context.Background())
	require.NoError(t, worker.Submit(BatchJob{Instance: "main", InstanceID: 1, Groups: groups}))
	worker.Stop()

	m.assertExpectations(t)
}

func TestBatchWorkerSubmitQueueFull(t *testing.T) {
	worker := NewBatchWorker(nil, 0, zap.NewNop())

	// never started, so the queue only drains at capacity
	for i := 0; i < cap(worker.jobs); i++ {
		require.NoError(t, worker.Submit(BatchJob{}))
	}
	require.ErrorIs(t, worker.Submit(BatchJob{}), ErrQueueFull)
}
