package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned for every call when the gateway URL or API key
// is missing. Required external calls are never silently defaulted.
var ErrNotConfigured = errors.New("gateway url or api key not configured")

// Client is the narrow contract the reconciliation passes depend on.
type Client interface {
	ListGroups(ctx context.Context, instance string, includeParticipants bool) ([]Group, error)
	GroupInfo(ctx context.Context, instance, groupJID string) (GroupInfo, error)
	GroupParticipants(ctx context.Context, instance, groupJID string) ([]Participant, error)
	ListMessages(ctx context.Context, instance, groupJID string, limit, offset int) ([]MessageRecord, error)
}

// HTTPClient talks to the Evolution-style messaging gateway API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// NewHTTPClient builds the gateway client. Missing configuration is not fatal
// here: every call fails with ErrNotConfigured so the triggering request gets
// the error instead of the process refusing to start.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ListGroups fetches all groups for an instance. Participant expansion is off
// by default to bound gateway response time.
func (c *HTTPClient) ListGroups(ctx context.Context, instance string, includeParticipants bool) ([]Group, error) {
	query := url.Values{"getParticipants": []string{strconv.FormatBool(includeParticipants)}}
	var groups []Group
	if err := c.get(ctx, "/group/fetchAllGroups/"+url.PathEscape(instance), query, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GroupInfo fetches one group with its full participant list.
func (c *HTTPClient) GroupInfo(ctx context.Context, instance, groupJID string) (GroupInfo, error) {
	query := url.Values{"groupJid": []string{groupJID}}
	var info GroupInfo
	if err := c.get(ctx, "/group/findGroupInfos/"+url.PathEscape(instance), query, &info); err != nil {
		return GroupInfo{}, err
	}
	return info, nil
}

// GroupParticipants fetches the bare participant listing used by the
// sync-verification diagnostic.
func (c *HTTPClient) GroupParticipants(ctx context.Context, instance, groupJID string) ([]Participant, error) {
	query := url.Values{"groupJid": []string{groupJID}}
	var list participantList
	if err := c.get(ctx, "/group/participants/"+url.PathEscape(instance), query, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListMessages pages through the gateway's persisted message log for a group.
func (c *HTTPClient) ListMessages(ctx context.Context, instance, groupJID string, limit, offset int) ([]MessageRecord, error) {
	body := map[string]any{
		"where":  map[string]any{"key": map[string]any{"remoteJid": groupJID}},
		"limit":  limit,
		"offset": offset,
	}
	var list messageList
	if err := c.post(ctx, "/chat/findMessages/"+url.PathEscape(instance), body, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *HTTPClient) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	if c.baseURL == "" || c.apiKey == "" {
		return ErrNotConfigured
	}

	ctx, span := otel.Tracer("sync-service/gateway").Start(ctx, "gateway."+method)
	defer span.End()
	span.SetAttributes(attribute.String("gateway.path", path))

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal gateway request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Warn("gateway returned error status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("gateway returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
