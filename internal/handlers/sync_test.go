package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sync-service/internal/gateway"
	"sync-service/internal/repositories"
	"sync-service/internal/syncer"
)

func setupSyncRouter(handler *SyncHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/sync/groups", handler.SyncGroups)
	r.POST("/api/sync/group-members", handler.RescueGroupMembers)
	r.POST("/api/sync/full", handler.FullSync)
	r.POST("/api/sync/messages", handler.HarvestMessages)
	return r
}

func TestSyncGroupsSuccess(t *testing.T) {
	service := new(SyncServiceMock)
	handler := NewSyncHandler(service, new(BatchSubmitterMock), "primary")
	router := setupSyncRouter(handler)

	service.On("SyncGroupMetadata", mock.Anything, "main").
		Return(syncer.MetadataResult{Fetched: 5, Synced: 5}, nil).Once()

	body := bytes.NewBufferString(`{"instance_name":"main"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/sync/groups", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, true, resp["success"])
	require.Equal(t, float64(5), resp["total_fetched"])
	require.Equal(t, float64(5), resp["synced"])
	service.AssertExpectations(t)
}

func TestSyncGroupsDefaultInstance(t *testing.T) {
	service := new(SyncServiceMock)
	handler := NewSyncHandler(service, new(BatchSubmitterMock), "primary")
	router := setupSyncRouter(handler)

	service.On("SyncGroupMetadata", mock.Anything, "primary").
		Return(syncer.MetadataResult{}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/sync/groups", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestSyncGroupsServiceError(t *testing.T) {
	service := new(SyncServiceMock)
	handler := NewSyncHandler(service, new(BatchSubmitterMock), "primary")
	router := setupSyncRouter(handler)

	service.On("SyncGroupMetadata", mock.Anything, "primary").
		Return(syncer.MetadataResult{}, assert.AnError).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/sync/groups", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	service.AssertExpectations(t)
}

func TestRescueGroupMembersSuccess(t *testing.T) {
	service := new(SyncServiceMock)
	handler := NewSyncHandler(service, new(BatchSubmitterMock), "primary")
	router := setupSyncRouter(handler)

	service.On("RescueGroup", mock.Anything, "primary", "g1@g.us").
		Return(syncer.RescueResult{Fixed: 2, Scanned: 10}, nil).Once()

	body := bytes.NewBufferString(`{"group_jid":"g1@g.us"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/sync/group-members", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, float64(2), resp["fixed"])
	require.Equal(t, float64(10), resp["total_scanned"])
	service.AssertExpectations(t)
}

func TestRescueGroupMembersMissingJID(t *testing.T) {
	service := new(SyncServiceMock)
	handler := NewSyncHandler(service, new(BatchSubmitterMock), "primary")
	router := setupSyncRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/group-members", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "RescueGroup", mock.Anything, mock.Anything, mock.Anything)
}

func TestFullSyncAccepted(t *testing.T) {
	service := new(SyncServiceMock)
	worker := new(BatchSubmitterMock)
	handler := NewSyncHandler(service, worker, "primary")
	router := setupSyncRouter(handler)

	plan := syncer.FullSyncPlan{
		Instance:   "primary",
		InstanceID: 1,
		Groups:     []gateway.Group{{ID: "g1@g.us"}, {ID: "g2@g.us"}, {ID: "g3@g.us"}},
	}
	service.On("PlanFullSync", mock.Anything, "primary").Return(plan, nil).Once()
	worker.On("Submit", syncer.BatchJob(plan)).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/sync/full", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "Started syncing 3 groups in background.", resp["message"])
	service.AssertExpectations(t)
	worker.AssertExpectations(t)
}

func TestFullSyncQueueFull(t *testing.T) {
	service := new(SyncServiceMock)
	worker := new(BatchSubmitterMock)
	handler := NewSyncHandler(service, worker, "primary")
	router := setupSyncRouter(handler)

	service.On("PlanFullSync", mock.Anything, "primary").
		Return(syncer.FullSyncPlan{Instance: "primary"}, nil).Once()
	worker.On("Submit", mock.Anything).Return(syncer.ErrQueueFull).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/sync/full", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	service.AssertExpectations(t)
	worker.AssertExpectations(t)
}

func TestHarvestMessagesSuccess(t *testing.T) {
	service := new(SyncServiceMock)
	handler := NewSyncHandler(service, new(BatchSubmitterMock), "primary")
	router := setupSyncRouter(handler)

	service.On("HarvestMessages", mock.Anything, "primary", "g1@g.us", 50, 100).
		Return(syncer.HarvestResult{TotalFound: 50, Saved: 40, Skipped: 10}, nil).Once()

	body := bytes.NewBufferString(`{"group_jid":"g1@g.us","limit":50,"offset":100}`)
	req := httptest.NewRequest(http.MethodPost, "/api/sync/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, float64(50), resp["total_found"])
	require.Equal(t, float64(40), resp["saved"])
	require.Equal(t, float64(10), resp["skipped"])
	service.AssertExpectations(t)
}

func TestHarvestMessagesGroupNotFound(t *testing.T) {
	service := new(SyncServiceMock)
	handler := NewSyncHandler(service, new(BatchSubmitterMock), "primary")
	router := setupSyncRouter(handler)

	service.On("HarvestMessages", mock.Anything, "primary", "g1@g.us", 0, 0).
		Return(syncer.HarvestResult{}, repositories.ErrGroupNotFound).Once()

	body := bytes.NewBufferString(`{"group_jid":"g1@g.us"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/sync/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	service.AssertExpectations(t)
}
