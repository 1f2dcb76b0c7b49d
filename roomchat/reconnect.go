package roomchat

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/coder/websocket"
)

// disconnectReason classifies why the read loop exited.
type disconnectReason int

const (
	reasonUnknown disconnectReason = iota
	reasonServerClose
	reasonClientClose
	reasonTimeout
	reasonTransport
)

func (r disconnectReason) String() string {
	switch r {
	case reasonServerClose:
		return "io server disconnect"
	case reasonClientClose:
		return "io client disconnect"
	case reasonTimeout:
		return "ping timeout"
	case reasonTransport:
		return "transport close"
	default:
		return "unknown"
	}
}

// retryable reports whether this reason warrants automatic reconnection.
// Only a client-initiated disconnect stops the retry machinery.
func (r disconnectReason) retryable() bool {
	return r != reasonClientClose
}

func classifyDisconnect(err error, closedByClient bool) disconnectReason {
	if closedByClient || errors.Is(err, context.Canceled) {
		return reasonClientClose
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return reasonTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return reasonTimeout
	}
	if websocket.CloseStatus(err) != -1 {
		// The server sent a close frame; it wants us gone or restarted.
		return reasonServerClose
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return reasonTransport
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return reasonTransport
	}
	return reasonUnknown
}

// handleDisconnect tears down the session owned by epoch and decides whether
// to retry. A stale epoch means a newer session already owns the state.
func (c *Client) handleDisconnect(err error, epoch int) {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return
	}
	reason := classifyDisconnect(err, c.closed)
	old := c.state
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close(websocket.StatusNormalClosure, "disconnect")
		c.conn = nil
	}
	c.epoch++
	c.clearSessionLocked()
	retry := c.cfg.AutoReconnect && !c.closed && reason.retryable()
	if retry {
		c.state = StateReconnecting
	} else {
		c.state = StateDisconnected
	}
	newState := c.state
	c.mu.Unlock()

	c.logger.Info("disconnected", map[string]any{
		"reason": reason.String(),
		"error":  err.Error(),
	})
	c.dispatcher.dispatchState(StateEvent{OldState: old, NewState: newState, Error: err})

	switch reason {
	case reasonTimeout:
		c.dispatcher.dispatchError(WrapError(ErrorTimeout, ErrorTimeout.UserMessage(), err))
	case reasonUnknown:
		c.dispatcher.dispatchError(WrapError(ErrorDisconnected, ErrorDisconnected.UserMessage(), err))
	}

	if retry {
		go c.reconnectLoop(reason == reasonServerClose)
	}
}

func (c *Client) newBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	if c.cfg.ReconnectInterval > 0 {
		bo.InitialInterval = c.cfg.ReconnectInterval
	}
	if c.cfg.MaxReconnectDelay > 0 {
		bo.MaxInterval = c.cfg.MaxReconnectDelay
	}
	bo.MaxElapsedTime = 0 // bounded by attempt count, not wall time
	bo.Reset()
	return bo
}

// reconnectLoop re-dials with jittered exponential backoff until it succeeds,
// the attempt budget runs out, or the client is closed. A server-initiated
// disconnect gets one immediate attempt before backoff kicks in.
func (c *Client) reconnectLoop(immediate bool) {
	bo := c.newBackoff()
	tries := c.cfg.MaxReconnectTries
	if tries <= 0 {
		tries = 1
	}

	for attempt := 1; attempt <= tries; attempt++ {
		if attempt > 1 || !immediate {
			delay := bo.NextBackOff()
			if delay == backoff.Stop {
				break
			}
			time.Sleep(delay)
		}

		c.mu.Lock()
		if c.closed || c.state != StateReconnecting {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		c.logger.Info("reconnect attempt", map[string]any{"attempt": attempt})
		ws, err := c.dial(context.Background())
		if err != nil {
			c.logger.Warn("reconnect attempt failed", map[string]any{
				"attempt": attempt,
				"error":   err.Error(),
			})
			continue
		}

		c.mu.Lock()
		if c.closed || c.state != StateReconnecting {
			c.mu.Unlock()
			_ = ws.Close(websocket.StatusNormalClosure, "client closed")
			return
		}
		c.mu.Unlock()

		c.startSession(ws, StateReconnecting)
		return
	}

	c.mu.Lock()
	if c.closed || c.state != StateReconnecting {
		c.mu.Unlock()
		return
	}
	c.state = StateDisconnected
	c.mu.Unlock()

	err := NewError(ErrorDisconnected, "reconnect attempts exhausted")
	c.logger.Error("reconnect gave up", map[string]any{"tries": tries})
	c.dispatcher.dispatchState(StateEvent{OldState: StateReconnecting, NewState: StateDisconnected, Error: err})
	c.dispatcher.dispatchError(err)
}
