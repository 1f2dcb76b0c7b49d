package roomchat

import "time"

// Config controls how the SDK connects.
type Config struct {
	URL      string // websocket endpoint, e.g. "ws://localhost:5000/ws"
	Token    string // bearer token from the auth endpoint
	Username string // identity announced on room joins

	// DefaultRoom is the room announced implicitly when a private-chat
	// operation needs a session that has not yet joined anywhere.
	DefaultRoom string

	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration // 0 disables; the server drives keepalive
	WriteTimeout     time.Duration

	AutoReconnect     bool
	ReconnectInterval time.Duration // initial retry delay
	MaxReconnectDelay time.Duration // retry delay ceiling
	MaxReconnectTries int           // attempts before reporting terminal failure

	JoinTimeout time.Duration // clears a join that the server never confirmed
	RosterDelay time.Duration // wait after a join before requesting the roster
	InitDelay   time.Duration // wait after implicit session init before dependent sends

	NotifyWindow time.Duration // user-joined notification suppression window
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultRoom:       "Chat Room 1",
		HandshakeTimeout:  10 * time.Second,
		WriteTimeout:      10 * time.Second,
		AutoReconnect:     true,
		ReconnectInterval: 2 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		MaxReconnectTries: 10,
		JoinTimeout:       10 * time.Second,
		RosterDelay:       500 * time.Millisecond,
		InitDelay:         500 * time.Millisecond,
		NotifyWindow:      5 * time.Second,
	}
}

// Validate reports whether the config can open a connection.
func (c Config) Validate() error {
	if c.URL == "" {
		return NewError(ErrorInvalidConfig, "empty URL")
	}
	if c.Username == "" {
		return NewError(ErrorInvalidConfig, "empty username")
	}
	return nil
}
