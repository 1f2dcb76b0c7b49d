package roomchat

import (
	"context"
	"strings"
	"time"
)

// JoinRoom announces membership in room. Joins are idempotent: a join that is
// already pending, or a join to the room the client is already in, does
// nothing. Switching rooms while a join is in flight leaves the previous room
// first. At most one join is in flight at any time.
func (c *Client) JoinRoom(ctx context.Context, room string) error {
	if strings.TrimSpace(room) == "" {
		return NewError(ErrorInvalidRoom, "room name is required")
	}

	c.mu.Lock()
	if c.state != StateConnected {
		c.mu.Unlock()
		return NewError(ErrorNotConnected, ErrorNotConnected.UserMessage())
	}
	if c.pendingRoom == room {
		c.mu.Unlock()
		return nil
	}
	if c.currentRoom == room && c.pendingRoom == "" {
		c.mu.Unlock()
		return nil
	}
	prev := c.currentRoom
	c.stopRoomTimersLocked()
	c.currentRoom = room // optimistic; delayed continuations re-check it
	c.pendingRoom = room
	username := c.cfg.Username
	epoch := c.epoch
	c.mu.Unlock()

	if prev != "" && prev != room {
		if err := c.send(ctx, Inbound{Event: eventLeave, Data: LeavePayload{Username: username, Room: prev}}); err != nil {
			c.revertJoin(epoch, room, prev)
			return err
		}
	}
	if err := c.send(ctx, Inbound{Event: eventUserConnected, Data: UserConnectedPayload{Username: username, RoomName: room}}); err != nil {
		c.revertJoin(epoch, room, prev)
		return err
	}

	c.mu.Lock()
	if c.epoch == epoch && c.currentRoom == room {
		c.initialized = true
		c.scheduleRosterLocked(room, epoch)
		c.scheduleJoinTimeoutLocked(room, epoch)
	}
	c.mu.Unlock()
	c.logger.Debug("join announced", map[string]any{"room": room})
	return nil
}

// LeaveRoom gives up membership in room. No-op unless room is the current
// membership. Cancels any pending join continuations for it.
func (c *Client) LeaveRoom(ctx context.Context, room string) error {
	c.mu.Lock()
	if room == "" || c.currentRoom != room {
		c.mu.Unlock()
		return nil
	}
	c.stopRoomTimersLocked()
	c.currentRoom = ""
	c.pendingRoom = ""
	username := c.cfg.Username
	c.mu.Unlock()

	c.logger.Debug("leaving room", map[string]any{"room": room})
	return c.send(ctx, Inbound{Event: eventLeave, Data: LeavePayload{Username: username, Room: room}})
}

// JoinPrivateRoom joins the private channel shared with another user. The
// server only associates a private channel with a session that has announced
// room membership, so an uninitialized session announces the default room
// first and sends the private join after a short delay.
func (c *Client) JoinPrivateRoom(ctx context.Context, with string) error {
	with = strings.TrimSpace(with)
	if with == "" {
		return NewError(ErrorEmptyUsername, "peer username is required")
	}

	c.mu.Lock()
	if c.state != StateConnected {
		c.mu.Unlock()
		return NewError(ErrorNotConnected, ErrorNotConnected.UserMessage())
	}
	initialized := c.initialized
	c.mu.Unlock()

	in := Inbound{Event: eventJoinPrivate, Data: JoinPrivatePayload{With: with}}
	if initialized {
		return c.send(ctx, in)
	}
	return c.initThenSend(ctx, in)
}

// initThenSend announces the default room to register this session with the
// server, then emits in once the server has had time to process it.
func (c *Client) initThenSend(ctx context.Context, in Inbound) error {
	announce := Inbound{
		Event: eventUserConnected,
		Data:  UserConnectedPayload{Username: c.cfg.Username, RoomName: c.cfg.DefaultRoom},
	}
	if err := c.send(ctx, announce); err != nil {
		return err
	}

	c.mu.Lock()
	c.initialized = true
	epoch := c.epoch
	if c.initTimer != nil {
		c.initTimer.Stop()
	}
	c.initTimer = time.AfterFunc(c.cfg.InitDelay, func() {
		c.mu.Lock()
		stale := c.closed || c.epoch != epoch
		c.mu.Unlock()
		if stale {
			return
		}
		if err := c.send(context.Background(), in); err != nil {
			c.dispatcher.dispatchError(err)
		}
	})
	c.mu.Unlock()
	return nil
}

// revertJoin rolls back the optimistic membership update after a failed emit.
func (c *Client) revertJoin(epoch int, room, prev string) {
	c.mu.Lock()
	if c.epoch == epoch && c.pendingRoom == room {
		c.pendingRoom = ""
		c.currentRoom = prev
	}
	c.mu.Unlock()
}

// scheduleRosterLocked requests the roster once the server has had time to
// register the join. The request is skipped if the user has switched rooms
// or the session changed by the time the timer fires. Caller holds c.mu.
func (c *Client) scheduleRosterLocked(room string, epoch int) {
	c.rosterTimer = time.AfterFunc(c.cfg.RosterDelay, func() {
		c.mu.Lock()
		stale := c.closed || c.epoch != epoch || c.currentRoom != room
		c.mu.Unlock()
		if stale {
			return
		}
		if err := c.send(context.Background(), Inbound{Event: eventWhoIsOnline, Data: WhoIsOnlinePayload{RoomName: room}}); err != nil {
			c.logger.Warn("roster request failed", map[string]any{"room": room, "error": err.Error()})
		}
	})
}

// scheduleJoinTimeoutLocked clears the pending join if the server never
// confirms it, so the client cannot get stuck mid-join. Caller holds c.mu.
func (c *Client) scheduleJoinTimeoutLocked(room string, epoch int) {
	c.joinTimer = time.AfterFunc(c.cfg.JoinTimeout, func() {
		c.mu.Lock()
		if !c.closed && c.epoch == epoch && c.pendingRoom == room {
			c.pendingRoom = ""
		}
		c.mu.Unlock()
	})
}
