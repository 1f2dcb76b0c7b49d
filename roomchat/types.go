package roomchat

import "encoding/json"

// Event names emitted by the client.
const (
	eventUserConnected      = "user_connected"
	eventLeave              = "leave"
	eventWhoIsOnline        = "who_is_online"
	eventSendMessage        = "send_message"
	eventJoinPrivate        = "join_private"
	eventSendPrivateMessage = "send_private_message"
)

// Event names received from the server.
const (
	eventConnectionStatus      = "connection_status"
	eventOnlineUsers           = "online_users"
	eventUserJoined            = "user_joined"
	eventUserLeft              = "user_left"
	eventReceiveMessage        = "receive_message"
	eventReceivePrivateMessage = "receive_private_message"
	eventError                 = "error"
)

// Inbound represents the envelope from client to server.
type Inbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Outbound is the envelope server -> client.
type Outbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// UserConnectedPayload announces room membership for the session.
type UserConnectedPayload struct {
	Username string `json:"username"`
	RoomName string `json:"room_name"`
}

// LeavePayload gives up membership in a room.
type LeavePayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// WhoIsOnlinePayload requests the roster of a room.
type WhoIsOnlinePayload struct {
	RoomName string `json:"room_name"`
}

// SendMessagePayload publishes a message to a room.
type SendMessagePayload struct {
	Username string `json:"username"`
	Content  string `json:"content"`
	RoomName string `json:"room_name"`
}

// JoinPrivatePayload joins the private channel shared with another user.
type JoinPrivatePayload struct {
	With string `json:"with"`
}

// SendPrivateMessagePayload sends a direct message to another user.
type SendPrivateMessagePayload struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

// ServerError describes a server-reported fault.
type ServerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ServerError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

// UnmarshalData decodes RawMessage into target.
func UnmarshalData(data json.RawMessage, v any) error {
	return json.Unmarshal(data, v)
}
