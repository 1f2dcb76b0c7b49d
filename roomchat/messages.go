package roomchat

import (
	"context"
	"fmt"
	"strings"
)

// SendMessage publishes a message to a room over the live connection. The
// error return is the caller's signal to fall back to the REST path; the
// client does not perform that fallback itself. The caller must have joined
// a room already.
func (c *Client) SendMessage(ctx context.Context, room, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return NewError(ErrorEmptyContent, ErrorEmptyContent.UserMessage())
	}
	if room == "" {
		return NewError(ErrorInvalidRoom, "room name is required")
	}

	c.mu.Lock()
	if c.state != StateConnected {
		c.mu.Unlock()
		return NewError(ErrorNotConnected, ErrorNotConnected.UserMessage())
	}
	if !c.initialized {
		c.mu.Unlock()
		return NewError(ErrorNotInitialized, ErrorNotInitialized.UserMessage())
	}
	username := c.cfg.Username
	c.mu.Unlock()

	return c.send(ctx, Inbound{Event: eventSendMessage, Data: SendMessagePayload{
		Username: username,
		Content:  content,
		RoomName: room,
	}})
}

// SendPrivateMessage sends a direct message to another user. An uninitialized
// session is initialized implicitly first, exactly as in JoinPrivateRoom.
func (c *Client) SendPrivateMessage(ctx context.Context, to, content string) error {
	to = strings.TrimSpace(to)
	content = strings.TrimSpace(content)
	if to == "" {
		return NewError(ErrorEmptyUsername, "recipient is required")
	}
	if content == "" {
		return NewError(ErrorEmptyContent, ErrorEmptyContent.UserMessage())
	}

	c.mu.Lock()
	if c.state != StateConnected {
		c.mu.Unlock()
		return NewError(ErrorNotConnected, ErrorNotConnected.UserMessage())
	}
	initialized := c.initialized
	c.mu.Unlock()

	in := Inbound{Event: eventSendPrivateMessage, Data: SendPrivateMessagePayload{To: to, Content: content}}
	if initialized {
		return c.send(ctx, in)
	}
	return c.initThenSend(ctx, in)
}

// Messages returns the local message sequence, deduplicated by server id.
func (c *Client) Messages() []MessageEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]MessageEvent, len(c.messages))
	copy(out, c.messages)
	return out
}

// PrivateMessages returns the local private message sequence.
func (c *Client) PrivateMessages() []PrivateMessageEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]PrivateMessageEvent, len(c.privates))
	copy(out, c.privates)
	return out
}

// recordMessage appends ev unless its id was already seen. Redelivery happens
// after reconnects and when the REST fallback races the broadcast.
func (c *Client) recordMessage(ev MessageEvent) bool {
	key := fmt.Sprintf("msg:%d", ev.ID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.seen[key]; dup {
		return false
	}
	c.seen[key] = struct{}{}
	c.messages = append(c.messages, ev)
	return true
}

func (c *Client) recordPrivateMessage(ev PrivateMessageEvent) bool {
	key := fmt.Sprintf("pm:%d", ev.ID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.seen[key]; dup {
		return false
	}
	c.seen[key] = struct{}{}
	c.privates = append(c.privates, ev)
	return true
}
