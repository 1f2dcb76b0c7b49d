package roomchat

// MessageEvent emitted when a message arrives in a room.
type MessageEvent struct {
	ID        int64  `json:"id"`
	RoomName  string `json:"room_name"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	IsMod     bool   `json:"is_mod"`
	IsSystem  bool   `json:"is_system"`
}

// PrivateMessageEvent emitted when a direct message arrives.
type PrivateMessageEvent struct {
	ID        int64  `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	IsMod     bool   `json:"is_mod"`
}

// UserEvent emitted when a user joins or leaves the current room.
type UserEvent struct {
	Username string `json:"username"`
	IsMod    bool   `json:"is_mod"`
}

// OnlineUser is one entry of a room roster snapshot.
type OnlineUser struct {
	Username string `json:"username"`
	IsMod    bool   `json:"is_mod"`
}

// ConnectionStatus is the server's confirmation after the transport connects.
type ConnectionStatus struct {
	Status     string `json:"status"`
	SID        string `json:"sid"`
	ServerTime string `json:"server_time"`
}
