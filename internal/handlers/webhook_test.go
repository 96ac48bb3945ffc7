package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupWebhookRouter(handler *WebhookHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/webhook/events", handler.HandleEvent)
	return r
}

func TestWebhookAcksSuccess(t *testing.T) {
	service := new(SyncServiceMock)
	handler := NewWebhookHandler(service, zap.NewNop())
	router := setupWebhookRouter(handler)

	service.On("IngestLiveEvent", mock.Anything, mock.Anything).Return(nil).Once()

	body := bytes.NewBufferString(`{"type":"messages.upsert","data":{"data":{"key":{"id":"LIVE1","remoteJid":"g1@g.us"}}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/events", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
	service.AssertExpectations(t)
}

func TestWebhookAcksOnServiceError(t *testing.T) {
	service := new(SyncServiceMock)
	handler := NewWebhookHandler(service, zap.NewNop())
	router := setupWebhookRouter(handler)

	service.On("IngestLiveEvent", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	body := bytes.NewBufferString(`{"type":"messages.upsert","data":{"data":{"key":{"id":"LIVE1","remoteJid":"g1@g.us"}}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/events", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// the emitter retries on non-2xx, so errors must never surface
	require.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestWebhookAcksMalformedBody(t *testing.T) {
	service := new(SyncServiceMock)
	handler := NewWebhookHandler(service, zap.NewNop())
	router := setupWebhookRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook/events", bytes.NewBufferString(`{not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	service.AssertNotCalled(t, "IngestLiveEvent", mock.Anything, mock.Anything)
}
