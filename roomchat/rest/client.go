package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client provides REST access to the chat server: authentication, room and
// message history, the non-real-time message fallback, friends, and
// moderation.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new REST API client.
// baseURL should be the base URL of the API, e.g., "http://localhost:5000/api".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient allows setting a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.httpClient = client
	}
}

// SetToken sets the bearer token for authenticated requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Authentication endpoints

// Login authenticates with existing credentials and returns a bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var resp TokenResponse
	if err := c.post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.post(ctx, "/auth/register", req, nil)
}

// Me returns the currently authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp User
	if err := c.get(ctx, "/auth/me", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout clears the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil)
}

// Room and message endpoints

// ListRooms returns the available public chat rooms.
func (c *Client) ListRooms(ctx context.Context) (*RoomsResponse, error) {
	var resp RoomsResponse
	if err := c.get(ctx, "/rooms", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMessages retrieves recent message history for a room (last 50).
func (c *Client) GetMessages(ctx context.Context, room string) ([]Message, error) {
	var resp []Message
	if err := c.get(ctx, "/chat/messages/"+url.PathEscape(room), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SendMessage posts a message to a room. This is the non-real-time delivery
// path used when the live connection cannot accept the message.
func (c *Client) SendMessage(ctx context.Context, room, content string) (*Message, error) {
	var resp Message
	if err := c.post(ctx, "/chat/messages/"+url.PathEscape(room), SendMessageRequest{Content: content}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPrivateMessages retrieves the direct message history with a friend.
func (c *Client) GetPrivateMessages(ctx context.Context, friendID int64) ([]PrivateMessage, error) {
	var resp []PrivateMessage
	if err := c.get(ctx, fmt.Sprintf("/friends/messages/%d", friendID), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SendPrivateMessage posts a direct message to a friend (fallback path).
func (c *Client) SendPrivateMessage(ctx context.Context, friendID int64, content string) error {
	return c.post(ctx, fmt.Sprintf("/friends/messages/%d", friendID), SendMessageRequest{Content: content}, nil)
}

// Friend endpoints

// GetFriends returns the friend list and pending friend requests.
func (c *Client) GetFriends(ctx context.Context) (*FriendsResponse, error) {
	var resp FriendsResponse
	if err := c.get(ctx, "/friends", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendFriendRequest sends a friend request to a user by id.
func (c *Client) SendFriendRequest(ctx context.Context, userID int64) error {
	return c.post(ctx, fmt.Sprintf("/friends/request/%d", userID), nil, nil)
}

// AcceptFriendRequest accepts a pending friend request.
func (c *Client) AcceptFriendRequest(ctx context.Context, requestID int64) error {
	return c.post(ctx, fmt.Sprintf("/friends/accept/%d", requestID), nil, nil)
}

// RejectFriendRequest rejects a pending friend request.
func (c *Client) RejectFriendRequest(ctx context.Context, requestID int64) error {
	return c.post(ctx, fmt.Sprintf("/friends/reject/%d", requestID), nil, nil)
}

// SearchUsers looks up users by partial username (minimum 2 characters).
func (c *Client) SearchUsers(ctx context.Context, term string) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.post(ctx, "/users/search", SearchRequest{SearchTerm: term}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Moderation endpoints

// KickUser temporarily kicks a user (moderators only).
func (c *Client) KickUser(ctx context.Context, username string) error {
	return c.post(ctx, "/mod/kick", ModerationRequest{Username: username}, nil)
}

// BanUser permanently bans a user (moderators only).
func (c *Client) BanUser(ctx context.Context, username string) error {
	return c.post(ctx, "/mod/ban", ModerationRequest{Username: username}, nil)
}

// Health checks server liveness.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.get(ctx, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Helper methods

func (c *Client) post(ctx context.Context, path string, body, dest any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.do(req, dest)
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.text() != "" {
			return fmt.Errorf("api error (status %d): %s", resp.StatusCode, errResp.text())
		}
		return fmt.Errorf("http error: %s (status %d)", string(body), resp.StatusCode)
	}

	if dest != nil {
		if err := json.Unmarshal(body, dest); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
