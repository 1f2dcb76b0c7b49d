package roomchat

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/roomchat/roomchat-sdk-go/roomchat/internal"

	"github.com/coder/websocket"
)

// transport is the connection surface the client drives. internal.Conn is
// the production implementation; tests install fakes.
type transport interface {
	Read(ctx context.Context, v any) error
	Write(ctx context.Context, v any) error
	Close(code websocket.StatusCode, reason string) error
}

// Client owns the single live connection to the chat server and the room
// membership derived from it. All state is mutated only here; callers read
// snapshots through the accessor methods and subscribe to events.
type Client struct {
	cfg        Config
	logger     Logger
	writeCh    chan Inbound
	dispatcher Dispatcher

	mu          sync.Mutex
	conn        transport
	cancel      context.CancelFunc
	state       ConnectionState
	transportID string
	initialized bool
	closed      bool

	// epoch increments on every session start and teardown. Delayed
	// continuations capture it and bail out when it no longer matches,
	// so nothing mutates state that belongs to a later session.
	epoch int

	currentRoom string
	pendingRoom string
	joinTimer   *time.Timer
	rosterTimer *time.Timer
	initTimer   *time.Timer

	joined   *joinedTracker
	roster   []OnlineUser
	messages []MessageEvent
	privates []PrivateMessageEvent
	seen     map[string]struct{}
}

// NewClient constructs a client with provided config.
// Use DefaultConfig() as a starting point and modify as needed.
// Set timeouts to 0 to disable them.
func NewClient(cfg *Config) *Client {
	conf := DefaultConfig()
	if cfg != nil {
		conf = *cfg
	}
	if conf.NotifyWindow <= 0 {
		conf.NotifyWindow = 5 * time.Second
	}
	return &Client{
		cfg:     conf,
		logger:  noopLogger{},
		writeCh: make(chan Inbound, 16),
		joined:  newJoinedTracker(conf.NotifyWindow),
		seen:    make(map[string]struct{}),
	}
}

// SetLogger overrides logger (optional).
func (c *Client) SetLogger(l Logger) {
	if l == nil {
		return
	}
	c.logger = l
}

// OnMessage subscribes to room messages.
func (c *Client) OnMessage(fn func(MessageEvent)) *Subscription {
	return c.dispatcher.SubscribeMessage(fn)
}

// OnPrivateMessage subscribes to direct messages.
func (c *Client) OnPrivateMessage(fn func(PrivateMessageEvent)) *Subscription {
	return c.dispatcher.SubscribePrivateMessage(fn)
}

// OnUserJoined subscribes to deduplicated user-joined notifications.
func (c *Client) OnUserJoined(fn func(UserEvent)) *Subscription {
	return c.dispatcher.SubscribeUserJoined(fn)
}

// OnUserLeft subscribes to user-left notifications.
func (c *Client) OnUserLeft(fn func(UserEvent)) *Subscription {
	return c.dispatcher.SubscribeUserLeft(fn)
}

// OnOnlineUsers subscribes to roster snapshots.
func (c *Client) OnOnlineUsers(fn func([]OnlineUser)) *Subscription {
	return c.dispatcher.SubscribeOnlineUsers(fn)
}

// OnStateChanged subscribes to connection state transitions.
func (c *Client) OnStateChanged(fn func(StateEvent)) *Subscription {
	return c.dispatcher.SubscribeStateChanged(fn)
}

// OnError subscribes to user-visible errors.
func (c *Client) OnError(fn func(error)) *Subscription {
	return c.dispatcher.SubscribeError(fn)
}

// Connect dials the server and starts internal loops. At most one connection
// attempt or live connection exists at a time; a second call while one is
// active fails.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return NewError(ErrorConnection, "client is closed")
	}
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return NewError(ErrorConnection, "connection attempt already active")
	}
	old := c.state
	c.state = StateConnecting
	c.mu.Unlock()
	c.dispatcher.dispatchState(StateEvent{OldState: old, NewState: StateConnecting})

	ws, err := c.dial(ctx)
	if err != nil {
		c.mu.Lock()
		from := c.state
		c.state = StateDisconnected
		c.mu.Unlock()
		wrapped := WrapError(ErrorConnection, "dial failed", err)
		c.dispatcher.dispatchState(StateEvent{OldState: from, NewState: StateDisconnected, Error: wrapped})
		return wrapped
	}

	c.startSession(ws, StateConnecting)
	return nil
}

// Reconnect re-dials after the retry policy gave up. It is the manual
// counterpart of the automatic loop and requires a disconnected client.
func (c *Client) Reconnect(ctx context.Context) error {
	return c.Connect(ctx)
}

// Close shuts the client down, cancels all pending timers, and resets all
// derived state. Runs the same teardown on every exit path.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.epoch++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	conn := c.conn
	c.conn = nil
	c.clearSessionLocked()
	old := c.state
	c.state = StateDisconnected
	c.mu.Unlock()

	if old != StateDisconnected {
		c.dispatcher.dispatchState(StateEvent{OldState: old, NewState: StateDisconnected})
	}
	if conn != nil {
		return conn.Close(websocket.StatusNormalClosure, "client close")
	}
	return nil
}

// State returns the current connection phase.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TransportID returns the session identifier assigned by the server, or ""
// while disconnected.
func (c *Client) TransportID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transportID
}

// Initialized reports whether this transport session has announced room
// membership at least once.
func (c *Client) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// CurrentRoom returns the room the client considers itself joined to, or "".
func (c *Client) CurrentRoom() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentRoom
}

// OnlineUsers returns the last roster snapshot received for the current room.
func (c *Client) OnlineUsers() []OnlineUser {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]OnlineUser, len(c.roster))
	copy(out, c.roster)
	return out
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return nil, err
	}

	dialCtx := ctx
	if c.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
		defer cancel()
	}

	var opts *websocket.DialOptions
	if c.cfg.Token != "" {
		opts = &websocket.DialOptions{
			HTTPHeader: http.Header{"Authorization": []string{"Bearer " + c.cfg.Token}},
		}
	}
	ws, _, err := websocket.Dial(dialCtx, u.String(), opts)
	return ws, err
}

// startSession installs a fresh connection. Membership is never resumed: the
// session starts uninitialized with no room, and the caller re-issues joins.
func (c *Client) startSession(ws *websocket.Conn, from ConnectionState) {
	runCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	conn := internal.NewConn(ws, c.cfg.ReadTimeout, c.cfg.WriteTimeout)
	c.conn = conn
	c.cancel = cancel
	c.epoch++
	epoch := c.epoch
	c.clearSessionLocked()
	c.state = StateConnected
	c.mu.Unlock()

	go c.readLoop(runCtx, conn, epoch)
	go c.writeLoop(runCtx, conn)

	c.logger.Info("connected", map[string]any{"url": c.cfg.URL})
	c.dispatcher.dispatchState(StateEvent{OldState: from, NewState: StateConnected})
}

// clearSessionLocked resets everything derived from a transport session.
// Envelopes still queued for the old connection are discarded: membership
// is never replayed onto the next session. Caller holds c.mu.
func (c *Client) clearSessionLocked() {
	c.transportID = ""
	c.initialized = false
	c.currentRoom = ""
	c.pendingRoom = ""
	c.stopTimersLocked()
	c.joined.reset()
	c.roster = nil
	for {
		select {
		case <-c.writeCh:
		default:
			return
		}
	}
}

func (c *Client) stopTimersLocked() {
	c.stopRoomTimersLocked()
	if c.initTimer != nil {
		c.initTimer.Stop()
		c.initTimer = nil
	}
}

func (c *Client) stopRoomTimersLocked() {
	if c.joinTimer != nil {
		c.joinTimer.Stop()
		c.joinTimer = nil
	}
	if c.rosterTimer != nil {
		c.rosterTimer.Stop()
		c.rosterTimer = nil
	}
}

func (c *Client) send(ctx context.Context, in Inbound) error {
	c.mu.Lock()
	connected := c.state == StateConnected
	c.mu.Unlock()
	if !connected {
		return NewError(ErrorNotConnected, ErrorNotConnected.UserMessage())
	}

	select {
	case c.writeCh <- in:
		return nil
	case <-ctx.Done():
		return WrapError(ErrorTimeout, "send aborted", ctx.Err())
	}
}

func (c *Client) readLoop(ctx context.Context, conn transport, epoch int) {
	for {
		var out Outbound
		if err := conn.Read(ctx, &out); err != nil {
			c.handleDisconnect(err, epoch)
			return
		}
		c.handleEvent(out)
	}
}

func (c *Client) writeLoop(ctx context.Context, conn transport) {
	for {
		select {
		case in := <-c.writeCh:
			if err := conn.Write(ctx, in); err != nil {
				if ctx.Err() == nil {
					c.logger.Warn("write loop exit", map[string]any{"error": err.Error()})
					c.dispatcher.dispatchError(WrapError(ErrorConnection, "write failed", err))
				}
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// handleEvent routes one server event through deduplication and bookkeeping
// before fanning it out to subscribers.
func (c *Client) handleEvent(out Outbound) {
	switch out.Event {
	case eventConnectionStatus:
		var st ConnectionStatus
		if err := UnmarshalData(out.Data, &st); err != nil {
			c.fireDecodeError(out.Event, err)
			return
		}
		c.mu.Lock()
		c.transportID = st.SID
		c.mu.Unlock()

	case eventOnlineUsers:
		users := normalizeRoster(out.Data, c.logger)
		c.mu.Lock()
		c.roster = users // replaced wholesale, never merged
		c.mu.Unlock()
		c.dispatcher.dispatchOnlineUsers(users)

	case eventUserJoined:
		var ev UserEvent
		if err := UnmarshalData(out.Data, &ev); err != nil {
			c.fireDecodeError(out.Event, err)
			return
		}
		if !c.joined.shouldNotify(ev.Username) {
			c.logger.Debug("suppressed duplicate user_joined", map[string]any{"username": ev.Username})
			return
		}
		c.dispatcher.dispatchUserJoined(ev)

	case eventUserLeft:
		var ev UserEvent
		if err := UnmarshalData(out.Data, &ev); err != nil {
			c.fireDecodeError(out.Event, err)
			return
		}
		c.dispatcher.dispatchUserLeft(ev)

	case eventReceiveMessage:
		var ev MessageEvent
		if err := UnmarshalData(out.Data, &ev); err != nil {
			c.fireDecodeError(out.Event, err)
			return
		}
		if !c.recordMessage(ev) {
			c.logger.Debug("dropped redelivered message", map[string]any{"id": ev.ID})
			return
		}
		c.dispatcher.dispatchMessage(ev)

	case eventReceivePrivateMessage:
		var ev PrivateMessageEvent
		if err := UnmarshalData(out.Data, &ev); err != nil {
			c.fireDecodeError(out.Event, err)
			return
		}
		if !c.recordPrivateMessage(ev) {
			c.logger.Debug("dropped redelivered private message", map[string]any{"id": ev.ID})
			return
		}
		c.dispatcher.dispatchPrivateMessage(ev)

	case eventError:
		var se ServerError
		if err := UnmarshalData(out.Data, &se); err != nil {
			c.fireDecodeError(out.Event, err)
			return
		}
		c.logger.Warn("server error", map[string]any{"code": se.Code, "message": se.Message})
		c.dispatcher.dispatchError(FromServerError(&se))

	default:
		c.logger.Debug("unhandled event", map[string]any{"event": out.Event})
	}
}

func (c *Client) fireDecodeError(event string, err error) {
	c.dispatcher.dispatchError(WrapError(ErrorSerialization, "failed to unmarshal "+event+" event", err))
}
