package events

import (
	"time"

	"github.com/dshills/scrollkit/internal/event/topic"
	"github.com/dshills/scrollkit/internal/geometry"
	"github.com/dshills/scrollkit/internal/surface"
)

// Touch and responder handshake topics.
const (
	// TopicTouchStart is published when a finger lands on the surface.
	TopicTouchStart topic.Topic = "touch.start"

	// TopicTouchMove is published while a finger moves.
	TopicTouchMove topic.Topic = "touch.move"

	// TopicTouchEnd is published when a finger lifts.
	TopicTouchEnd topic.Topic = "touch.end"

	// TopicTouchCancel is published when the gesture is cancelled.
	TopicTouchCancel topic.Topic = "touch.cancel"

	// TopicResponderGrant is published when the surface becomes responder.
	TopicResponderGrant topic.Topic = "responder.grant"

	// TopicResponderRelease is published when the surface releases the
	// responder role.
	TopicResponderRelease topic.Topic = "responder.release"
)

// TouchEvent carries one touch-dispatch notification.
type TouchEvent struct {
	// Topic identifies which touch transition this is.
	Topic topic.Topic

	// Target is the view node under the touch point.
	Target surface.Handle

	// Position is the touch location in surface coordinates.
	Position geometry.Point

	// Touches is the number of touch points still on the surface after
	// this event (zero for the last finger lifting).
	Touches int

	// Timestamp is when the touch was dispatched.
	Timestamp time.Time
}

// EventTopic implements event.TopicProvider.
func (e TouchEvent) EventTopic() topic.Topic {
	return e.Topic
}
