package event

import "github.com/dshills/scrollkit/internal/event/topic"

// Handler processes a delivered event.
type Handler interface {
	Handle(event any) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(event any) error

// Handle implements Handler.
func (f HandlerFunc) Handle(event any) error {
	return f(event)
}

// TopicProvider is implemented by events that know their own topic.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// Priority determines delivery order within a topic. Lower values are
// delivered first.
type Priority int

// Priority levels.
const (
	// PriorityFirst is reserved for subscribers that must observe an event
	// before anyone else (sequenced dispatch).
	PriorityFirst Priority = -100

	// PriorityHigh runs before normal subscribers.
	PriorityHigh Priority = -10

	// PriorityNormal is the default.
	PriorityNormal Priority = 0

	// PriorityLow runs after normal subscribers.
	PriorityLow Priority = 10
)

// FilterFunc is a predicate applied before delivery.
type FilterFunc func(event any) bool

// Stats is a point-in-time view of bus activity.
type Stats struct {
	EventsPublished   uint64
	EventsDelivered   uint64
	HandlerErrors     uint64
	ActiveSubscribers int
}
