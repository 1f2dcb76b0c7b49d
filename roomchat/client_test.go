package roomchat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn satisfies transport without a server. Writes are not observed
// through it; tests drain the client's write queue instead.
type fakeConn struct{}

func (fakeConn) Read(ctx context.Context, v any) error { <-ctx.Done(); return ctx.Err() }
func (fakeConn) Write(context.Context, any) error      { return nil }
func (fakeConn) Close(websocket.StatusCode, string) error {
	return nil
}

// newTestClient returns a client in the Connected state with short delays,
// backed by a fake transport. No loops run; emitted envelopes accumulate in
// the write queue.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.URL = "ws://example.invalid/ws"
	cfg.Username = "carol"
	cfg.RosterDelay = 10 * time.Millisecond
	cfg.InitDelay = 10 * time.Millisecond
	cfg.JoinTimeout = 60 * time.Millisecond

	c := NewClient(&cfg)
	c.mu.Lock()
	c.conn = fakeConn{}
	c.state = StateConnected
	c.mu.Unlock()
	return c
}

// drainWrites empties the client's outbound queue.
func drainWrites(c *Client) []Inbound {
	var out []Inbound
	for {
		select {
		case in := <-c.writeCh:
			out = append(out, in)
		default:
			return out
		}
	}
}

func eventsOf(writes []Inbound) []string {
	names := make([]string, len(writes))
	for i, w := range writes {
		names[i] = w.Event
	}
	return names
}

func rawJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestSendMessageNotConnected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "ws://example.invalid/ws"
	cfg.Username = "carol"
	c := NewClient(&cfg)

	err := c.SendMessage(context.Background(), "Chat Room 1", "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, NewError(ErrorNotConnected, "")))
}

func TestConnectRequiresConfig(t *testing.T) {
	c := NewClient(nil)
	err := c.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, NewError(ErrorInvalidConfig, "")))
}

func TestConnectionStatusSetsTransportID(t *testing.T) {
	c := newTestClient(t)
	c.handleEvent(Outbound{
		Event: eventConnectionStatus,
		Data:  rawJSON(t, ConnectionStatus{Status: "connected", SID: "sid-42"}),
	})
	assert.Equal(t, "sid-42", c.TransportID())
}

func TestServerErrorMappedToCode(t *testing.T) {
	c := newTestClient(t)
	var got error
	c.OnError(func(err error) { got = err })

	c.handleEvent(Outbound{
		Event: eventError,
		Data:  rawJSON(t, ServerError{Code: "USER_BANNED", Message: "User is banned"}),
	})

	require.Error(t, got)
	assert.True(t, errors.Is(got, NewError(ErrorUserBanned, "")))
	assert.True(t, IsServerError(got))
}

func TestUnknownServerErrorCodeFallsBack(t *testing.T) {
	c := newTestClient(t)
	var got error
	c.OnError(func(err error) { got = err })

	c.handleEvent(Outbound{
		Event: eventError,
		Data:  rawJSON(t, ServerError{Code: "SOMETHING_NEW", Message: "?"}),
	})

	require.Error(t, got)
	assert.True(t, errors.Is(got, NewError(ErrorUnknown, "")))
}

func TestMalformedEventPayloadReportsSerialization(t *testing.T) {
	c := newTestClient(t)
	var got error
	c.OnError(func(err error) { got = err })

	c.handleEvent(Outbound{Event: eventUserJoined, Data: json.RawMessage(`"not an object"`)})

	require.Error(t, got)
	assert.True(t, errors.Is(got, NewError(ErrorSerialization, "")))
}

func TestUserJoinedSuppressionWindow(t *testing.T) {
	c := newTestClient(t)
	now := time.Now()
	c.joined.now = func() time.Time { return now }

	var seen []string
	c.OnUserJoined(func(ev UserEvent) { seen = append(seen, ev.Username) })

	payload := rawJSON(t, UserEvent{Username: "alice"})
	c.handleEvent(Outbound{Event: eventUserJoined, Data: payload})
	c.handleEvent(Outbound{Event: eventUserJoined, Data: payload})
	assert.Equal(t, []string{"alice"}, seen, "duplicate within window must be suppressed")

	now = now.Add(5*time.Second + time.Millisecond)
	c.handleEvent(Outbound{Event: eventUserJoined, Data: payload})
	assert.Equal(t, []string{"alice", "alice"}, seen, "arrival after expiry notifies again")
}

func TestCloseClearsStateAndIsIdempotent(t *testing.T) {
	c := newTestClient(t)
	require.NoError(t, c.JoinRoom(context.Background(), "Chat Room 1"))
	drainWrites(c)

	var transitions []StateEvent
	c.OnStateChanged(func(ev StateEvent) { transitions = append(transitions, ev) })

	require.NoError(t, c.Close())
	assert.Equal(t, StateDisconnected, c.State())
	assert.Empty(t, c.CurrentRoom())
	assert.False(t, c.Initialized())
	assert.Empty(t, c.TransportID())
	require.Len(t, transitions, 1)
	assert.Equal(t, StateDisconnected, transitions[0].NewState)

	require.NoError(t, c.Close())
	assert.Len(t, transitions, 1, "second close must not fire another transition")
}

func TestConnectRefusedWhileActive(t *testing.T) {
	c := newTestClient(t) // already Connected
	err := c.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, NewError(ErrorConnection, "")))
}

// Scenario: carol joins a room, receives a roster, and sends a message.
func TestJoinReceiveRosterAndSend(t *testing.T) {
	c := newTestClient(t)

	var rosters [][]OnlineUser
	c.OnOnlineUsers(func(users []OnlineUser) { rosters = append(rosters, users) })

	require.NoError(t, c.JoinRoom(context.Background(), "Chat Room 1"))

	c.handleEvent(Outbound{
		Event: eventOnlineUsers,
		Data:  json.RawMessage(`[{"username":"carol"},{"username":"dave"}]`),
	})
	require.Len(t, rosters, 1)
	assert.Len(t, c.OnlineUsers(), 2)

	require.NoError(t, c.SendMessage(context.Background(), "Chat Room 1", "hi"))

	writes := drainWrites(c)
	require.NotEmpty(t, writes)
	last := writes[len(writes)-1]
	require.Equal(t, eventSendMessage, last.Event)
	payload, ok := last.Data.(SendMessagePayload)
	require.True(t, ok)
	assert.Equal(t, SendMessagePayload{Username: "carol", Content: "hi", RoomName: "Chat Room 1"}, payload)
}
