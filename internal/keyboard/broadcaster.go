// Package keyboard broadcasts software-keyboard transitions over the event
// bus with sequenced dispatch: all four notifications fan out synchronously
// through a single ordered publish, so a subscriber registered first (the
// responder coordinator) always observes a transition before host-level
// listeners that depend on updated keyboard geometry.
package keyboard

import (
	"errors"

	"github.com/dshills/scrollkit/internal/event"
	"github.com/dshills/scrollkit/internal/event/events"
	"github.com/dshills/scrollkit/internal/event/topic"
)

// Name identifies one of the four keyboard notifications.
type Name string

// Keyboard notification names.
const (
	WillShow Name = "keyboardWillShow"
	DidShow  Name = "keyboardDidShow"
	WillHide Name = "keyboardWillHide"
	DidHide  Name = "keyboardDidHide"
)

// ErrUnknownNotification is returned for a Name outside the four keyboard
// notifications.
var ErrUnknownNotification = errors.New("unknown keyboard notification")

// Topic returns the bus topic for the notification.
func (n Name) Topic() (topic.Topic, error) {
	switch n {
	case WillShow:
		return events.TopicKeyboardWillShow, nil
	case DidShow:
		return events.TopicKeyboardDidShow, nil
	case WillHide:
		return events.TopicKeyboardWillHide, nil
	case DidHide:
		return events.TopicKeyboardDidHide, nil
	default:
		return "", ErrUnknownNotification
	}
}

// Names returns all four notification names in broadcast order.
func Names() []Name {
	return []Name{WillShow, DidShow, WillHide, DidHide}
}

// Handler receives a keyboard event.
type Handler func(events.KeyboardEvent)

// Broadcaster publishes keyboard transitions and hands out cancelable
// subscriptions.
type Broadcaster struct {
	bus *event.Bus
}

// NewBroadcaster creates a broadcaster on its own private bus.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{bus: event.NewBus()}
}

// NewBroadcasterWithBus creates a broadcaster sharing an existing bus.
func NewBroadcasterWithBus(bus *event.Bus) *Broadcaster {
	return &Broadcaster{bus: bus}
}

// Subscribe registers a handler for one notification and returns a
// subscription whose Cancel removes it. Options (notably
// event.WithPriority(event.PriorityFirst)) control delivery order.
func (b *Broadcaster) Subscribe(name Name, fn Handler, opts ...event.SubscriptionOption) (event.Subscription, error) {
	if fn == nil {
		return nil, event.ErrNilHandler
	}

	tp, err := name.Topic()
	if err != nil {
		return nil, err
	}

	return b.bus.SubscribeFunc(tp, func(ev any) error {
		ke, ok := ev.(events.KeyboardEvent)
		if !ok {
			return event.ErrInvalidEvent
		}
		fn(ke)
		return nil
	}, opts...)
}

// Publish broadcasts a keyboard event under the given notification name.
// Delivery is synchronous and priority-ordered; Publish returns after the
// last subscriber has run.
func (b *Broadcaster) Publish(name Name, ev events.KeyboardEvent) error {
	tp, err := name.Topic()
	if err != nil {
		return err
	}
	ev.Topic = tp
	return b.bus.Publish(ev)
}

// Stats exposes the underlying bus statistics.
func (b *Broadcaster) Stats() event.Stats {
	return b.bus.Stats()
}
