package roomchat

import "sync"

// Subscription is a cancellation handle returned by the On* methods.
// Cancelling one subscription never affects the others.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel removes the subscriber. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.cancel == nil {
		return
	}
	s.once.Do(s.cancel)
}

type handler[T any] struct {
	id int
	fn func(T)
}

// Dispatcher fans events out to registered subscribers in registration order.
type Dispatcher struct {
	mu     sync.Mutex
	nextID int

	message    []handler[MessageEvent]
	private    []handler[PrivateMessageEvent]
	userJoined []handler[UserEvent]
	userLeft   []handler[UserEvent]
	roster     []handler[[]OnlineUser]
	state      []handler[StateEvent]
	errs       []handler[error]
}

func subscribe[T any](d *Dispatcher, list *[]handler[T], fn func(T)) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	*list = append(*list, handler[T]{id: id, fn: fn})
	return &Subscription{cancel: func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, h := range *list {
			if h.id == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return
			}
		}
	}}
}

func dispatch[T any](d *Dispatcher, list *[]handler[T], ev T) {
	d.mu.Lock()
	snapshot := make([]handler[T], len(*list))
	copy(snapshot, *list)
	d.mu.Unlock()
	for _, h := range snapshot {
		h.fn(ev)
	}
}

func (d *Dispatcher) SubscribeMessage(fn func(MessageEvent)) *Subscription {
	return subscribe(d, &d.message, fn)
}

func (d *Dispatcher) SubscribePrivateMessage(fn func(PrivateMessageEvent)) *Subscription {
	return subscribe(d, &d.private, fn)
}

func (d *Dispatcher) SubscribeUserJoined(fn func(UserEvent)) *Subscription {
	return subscribe(d, &d.userJoined, fn)
}

func (d *Dispatcher) SubscribeUserLeft(fn func(UserEvent)) *Subscription {
	return subscribe(d, &d.userLeft, fn)
}

func (d *Dispatcher) SubscribeOnlineUsers(fn func([]OnlineUser)) *Subscription {
	return subscribe(d, &d.roster, fn)
}

func (d *Dispatcher) SubscribeStateChanged(fn func(StateEvent)) *Subscription {
	return subscribe(d, &d.state, fn)
}

func (d *Dispatcher) SubscribeError(fn func(error)) *Subscription {
	return subscribe(d, &d.errs, fn)
}

func (d *Dispatcher) dispatchMessage(ev MessageEvent)               { dispatch(d, &d.message, ev) }
func (d *Dispatcher) dispatchPrivateMessage(ev PrivateMessageEvent) { dispatch(d, &d.private, ev) }
func (d *Dispatcher) dispatchUserJoined(ev UserEvent)               { dispatch(d, &d.userJoined, ev) }
func (d *Dispatcher) dispatchUserLeft(ev UserEvent)                 { dispatch(d, &d.userLeft, ev) }
func (d *Dispatcher) dispatchOnlineUsers(users []OnlineUser)        { dispatch(d, &d.roster, users) }
func (d *Dispatcher) dispatchState(ev StateEvent)                   { dispatch(d, &d.state, ev) }

func (d *Dispatcher) dispatchError(err error) {
	if err == nil {
		return
	}
	dispatch(d, &d.errs, err)
}
