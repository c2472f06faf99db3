// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/warden-foundation/warden/lib/netutil"
	"github.com/warden-foundation/warden/lib/ref"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the platform API endpoint (e.g.
	// "https://discord.com/api/v10").
	BaseURL string
	// Token is the bot token sent on every request.
	Token string
	// HTTPClient is used for all requests. If nil,
	// http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is an authenticated chat platform REST client. It implements
// [Session]; the guard and ticket packages depend on the interface so
// tests can substitute fakes.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Session = (*Client)(nil)

// NewClient creates a platform client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("platform: BaseURL is required")
	}
	if config.Token == "" {
		return nil, fmt.Errorf("platform: Token is required")
	}

	// Validate the URL structure. We store the string form (with
	// trailing slash stripped) and build request URLs by direct
	// concatenation.
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("platform: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		token:      config.Token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BanUser bans the user from the space. The reason appears in the
// space's audit log.
func (c *Client) BanUser(ctx context.Context, space ref.SpaceID, user ref.UserID, reason string) error {
	path := fmt.Sprintf("/guilds/%s/bans/%s", space, user)
	if err := c.doRequest(ctx, http.MethodPut, path, reason, nil, nil, nil); err != nil {
		return fmt.Errorf("platform: banning %s in %s: %w", user, space, err)
	}
	return nil
}

// UnbanUser lifts a ban.
func (c *Client) UnbanUser(ctx context.Context, space ref.SpaceID, user ref.UserID, reason string) error {
	path := fmt.Sprintf("/guilds/%s/bans/%s", space, user)
	if err := c.doRequest(ctx, http.MethodDelete, path, reason, nil, nil, nil); err != nil {
		return fmt.Errorf("platform: unbanning %s in %s: %w", user, space, err)
	}
	return nil
}

// KickUser removes the user from the space without banning.
func (c *Client) KickUser(ctx context.Context, space ref.SpaceID, user ref.UserID, reason string) error {
	path := fmt.Sprintf("/guilds/%s/members/%s", space, user)
	if err := c.doRequest(ctx, http.MethodDelete, path, reason, nil, nil, nil); err != nil {
		return fmt.Errorf("platform: kicking %s from %s: %w", user, space, err)
	}
	return nil
}

// CreateChannel creates a text channel in the space with the given
// permission overwrites.
func (c *Client) CreateChannel(ctx context.Context, space ref.SpaceID, name string, overwrites []PermissionOverwrite) (*Channel, error) {
	path := fmt.Sprintf("/guilds/%s/channels", space)
	var channel Channel
	err := c.doRequest(ctx, http.MethodPost, path, "", createChannelRequest{
		Name:       name,
		Type:       ChannelTypeText,
		Overwrites: overwrites,
	}, nil, &channel)
	if err != nil {
		return nil, fmt.Errorf("platform: creating channel %q in %s: %w", name, space, err)
	}
	return &channel, nil
}

// DeleteChannel deletes a channel. The reason appears in the audit
// log.
func (c *Client) DeleteChannel(ctx context.Context, channel ref.ChannelID, reason string) error {
	path := fmt.Sprintf("/channels/%s", channel)
	if err := c.doRequest(ctx, http.MethodDelete, path, reason, nil, nil, nil); err != nil {
		return fmt.Errorf("platform: deleting channel %s: %w", channel, err)
	}
	return nil
}

// SendMessage posts a message to a channel.
func (c *Client) SendMessage(ctx context.Context, channel ref.ChannelID, content string) (*Message, error) {
	path := fmt.Sprintf("/channels/%s/messages", channel)
	var message Message
	if err := c.doRequest(ctx, http.MethodPost, path, "", sendMessageRequest{Content: content}, nil, &message); err != nil {
		return nil, fmt.Errorf("platform: sending message to %s: %w", channel, err)
	}
	return &message, nil
}

// RecentAuditEntries returns the newest limit entries of the given
// action type from the space's admin history, newest first.
func (c *Client) RecentAuditEntries(ctx context.Context, space ref.SpaceID, actionType, limit int) ([]AuditEntry, error) {
	query := url.Values{}
	query.Set("action_type", fmt.Sprint(actionType))
	query.Set("limit", fmt.Sprint(limit))

	path := fmt.Sprintf("/guilds/%s/audit-logs", space)
	var response auditLogResponse
	if err := c.doRequest(ctx, http.MethodGet, path, "", nil, query, &response); err != nil {
		return nil, fmt.Errorf("platform: fetching audit log for %s: %w", space, err)
	}
	return response.Entries, nil
}

// SpaceOwner returns the owning user of a space.
func (c *Client) SpaceOwner(ctx context.Context, spaceID ref.SpaceID) (ref.UserID, error) {
	path := fmt.Sprintf("/guilds/%s", spaceID)
	var result space
	if err := c.doRequest(ctx, http.MethodGet, path, "", nil, nil, &result); err != nil {
		return ref.UserID{}, fmt.Errorf("platform: fetching space %s: %w", spaceID, err)
	}
	return result.OwnerID, nil
}

// CloseIdleConnections closes idle HTTP connections in the underlying
// transport's connection pool. Call this after a network disruption
// to force subsequent requests onto fresh TCP connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// doRequest performs an HTTP request. On 2xx the response body is
// JSON-decoded into result (or drained when result is nil). On
// 4xx/5xx it returns a *APIError. reason, if non-empty, is sent as
// the audit log reason header. query may be nil.
func (c *Client) doRequest(ctx context.Context, method, path, reason string, requestBody any, query url.Values, result any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Authorization", "Bot "+c.token)
	if reason != "" {
		request.Header.Set("X-Audit-Log-Reason", url.PathEscape(reason))
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		// All platform error responses use the same JSON shape.
		raw := netutil.ErrorBody(response.Body)
		var apiErr APIError
		if jsonErr := json.Unmarshal([]byte(raw), &apiErr); jsonErr != nil {
			// Server returned non-JSON error. Fail loud with the
			// raw body.
			return fmt.Errorf("unexpected %d response from %s %s: %s",
				response.StatusCode, method, path, raw)
		}
		apiErr.StatusCode = response.StatusCode
		return &apiErr
	}

	if result == nil {
		// Drain so the connection can be reused.
		if _, err := netutil.ReadResponse(response.Body); err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}
		return nil
	}
	if err := netutil.DecodeResponse(response.Body, result); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}
