// Package internal carries chat envelopes over a websocket.
package internal

import (
	"context"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Conn moves JSON event envelopes over a websocket, bounding each read and
// write with the configured deadline. A zero deadline leaves the caller's
// context in charge; the chat server drives keepalive, so reads usually run
// unbounded.
type Conn struct {
	ws           *websocket.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewConn(ws *websocket.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{ws: ws, readTimeout: readTimeout, writeTimeout: writeTimeout}
}

// Read decodes the next server envelope into v.
func (c *Conn) Read(ctx context.Context, v any) error {
	ctx, cancel := withDeadline(ctx, c.readTimeout)
	defer cancel()
	return wsjson.Read(ctx, c.ws, v)
}

// Write encodes v and sends it as one envelope.
func (c *Conn) Write(ctx context.Context, v any) error {
	ctx, cancel := withDeadline(ctx, c.writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, c.ws, v)
}

func (c *Conn) Close(code websocket.StatusCode, reason string) error {
	return c.ws.Close(code, reason)
}

func withDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
