package rest

// Authentication types

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User represents an account as returned by the API.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	IsMod     bool   `json:"is_mod"`
	CreatedAt string `json:"created_at"`
}

// TokenResponse contains the bearer token returned after a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// Room types

// RoomsResponse lists the public chat rooms.
type RoomsResponse struct {
	Rooms      []string `json:"rooms"`
	User       string   `json:"user"`
	TotalRooms int      `json:"total_rooms"`
}

// Message types

// Message represents one room message in the history.
type Message struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	IsMod     bool   `json:"is_mod"`
	IsSystem  bool   `json:"is_system"`
	RoomName  string `json:"room_name"`
}

// SendMessageRequest is the request body for the room message fallback post.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// PrivateMessage represents one direct message in the history.
type PrivateMessage struct {
	ID        int64  `json:"id"`
	Sender    User   `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
}

// Friend types

// FriendRequest is a pending incoming friend request.
type FriendRequest struct {
	ID        int64  `json:"id"`
	Sender    User   `json:"sender"`
	CreatedAt string `json:"created_at"`
}

// FriendsResponse contains the friend list and pending requests.
type FriendsResponse struct {
	Friends        []User          `json:"friends"`
	FriendRequests []FriendRequest `json:"friend_requests"`
}

// SearchRequest is the request body for user search.
type SearchRequest struct {
	SearchTerm string `json:"search_term"`
}

// SearchResponse contains user search results.
type SearchResponse struct {
	Users       []User `json:"users"`
	SearchTerm  string `json:"search_term"`
	ResultCount int    `json:"result_count"`
}

// Moderation types

// ModerationRequest names the target of a kick or ban.
type ModerationRequest struct {
	Username string `json:"username"`
}

// StatusResponse is the generic {message} acknowledgment body.
type StatusResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports server liveness and socket activity.
type HealthResponse struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	SocketIOActive bool   `json:"socketio_active"`
	ActiveRooms    int    `json:"active_rooms"`
	ConnectedUsers int    `json:"connected_users"`
}

// ErrorResponse represents an API error body. Depending on the endpoint the
// server fills either field.
type ErrorResponse struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}

func (e ErrorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err
}
