// Package event provides a synchronous, priority-ordered publish/subscribe
// bus. Delivery is sequenced: within a topic, subscribers run one after
// another in ascending priority order on the publisher's goroutine, so a
// subscriber registered at PriorityFirst is guaranteed to observe an event
// before every other listener. This is the ordering backbone the keyboard
// broadcaster relies on.
package event

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/scrollkit/internal/event/topic"
)

// Bus is a synchronous publish/subscribe bus.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]*subscription

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64

	// errorHandler receives handler errors; delivery continues regardless.
	errorHandler func(*HandlerError)
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithErrorHandler sets a callback invoked for every handler error.
func WithErrorHandler(fn func(*HandlerError)) BusOption {
	return func(b *Bus) {
		b.errorHandler = fn
	}
}

// NewBus creates a new event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subs: make(map[string]*subscription),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe creates a new subscription for the given topic pattern.
// Safe for concurrent use.
func (b *Bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() && pattern != topic.WildcardMulti {
		return nil, ErrInvalidTopic
	}

	sub := newSubscription(uuid.NewString(), pattern, handler, b.removeByID, opts...)

	b.mu.Lock()
	b.subs[sub.id] = sub
	b.mu.Unlock()

	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function.
func (b *Bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	b.mu.RLock()
	_, known := b.subs[sub.ID()]
	b.mu.RUnlock()

	sub.Cancel()

	if !known {
		return ErrSubscriptionNotFound
	}
	return nil
}

// removeByID is handed to subscriptions so Cancel removes them from the bus.
func (b *Bus) removeByID(id string) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

// Publish delivers an event synchronously to every matching subscriber in
// ascending priority order. The event must implement TopicProvider. The call
// returns after the last handler completes; handler errors are counted and
// reported to the error handler but do not stop delivery.
func (b *Bus) Publish(event any) error {
	tp, ok := event.(TopicProvider)
	if !ok {
		return ErrInvalidEvent
	}
	eventTopic := tp.EventTopic()
	if !eventTopic.IsValid() {
		return ErrInvalidTopic
	}

	subs := b.matching(eventTopic)
	if len(subs) == 0 {
		return nil
	}

	b.eventsPublished.Add(1)

	for _, sub := range subs {
		if !sub.shouldDeliver(event) {
			continue
		}

		if err := sub.handler.Handle(event); err != nil {
			b.handlerErrors.Add(1)
			if b.errorHandler != nil {
				b.errorHandler(&HandlerError{
					SubscriptionID: sub.id,
					Topic:          eventTopic.String(),
					Err:            err,
				})
			}
		} else {
			b.eventsDelivered.Add(1)
		}

		if sub.config.Once {
			sub.Cancel()
		}
	}

	return nil
}

// matching returns active subscriptions for a topic, priority-ordered.
// Ties are broken by subscription ID so ordering is deterministic.
func (b *Bus) matching(t topic.Topic) []*subscription {
	b.mu.RLock()
	matched := make([]*subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if t.Matches(sub.topic) {
			matched = append(matched, sub)
		}
	}
	b.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].config.Priority != matched[j].config.Priority {
			return matched[i].config.Priority < matched[j].config.Priority
		}
		return matched[i].id < matched[j].id
	})

	return matched
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := len(b.subs)
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		ActiveSubscribers: active,
	}
}
