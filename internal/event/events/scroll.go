package events

import (
	"time"

	"github.com/dshills/scrollkit/internal/event/topic"
	"github.com/dshills/scrollkit/internal/geometry"
)

// Scroll surface topics.
const (
	// TopicScroll is published for every scroll position update.
	TopicScroll topic.Topic = "scroll.event"

	// TopicScrollBeginDrag is published when the user starts dragging.
	TopicScrollBeginDrag topic.Topic = "scroll.drag.begin"

	// TopicScrollEndDrag is published when the user stops dragging.
	TopicScrollEndDrag topic.Topic = "scroll.drag.end"

	// TopicMomentumBegin is published when momentum scrolling starts.
	TopicMomentumBegin topic.Topic = "scroll.momentum.begin"

	// TopicMomentumEnd is published when momentum scrolling settles.
	TopicMomentumEnd topic.Topic = "scroll.momentum.end"
)

// ScrollEvent carries one scroll surface notification.
type ScrollEvent struct {
	// Topic identifies which scroll transition this is.
	Topic topic.Topic

	// ContentOffset is the surface's current scroll position.
	ContentOffset geometry.Point

	// ContentSize is the total size of the scrollable content.
	ContentSize geometry.Size

	// Velocity is the reported scroll velocity, when the platform supplies
	// one. Nil means the platform omitted it, which drag-end bookkeeping
	// treats the same as an exactly-zero velocity.
	Velocity *geometry.Point

	// Timestamp is when the surface reported the event.
	Timestamp time.Time
}

// EventTopic implements event.TopicProvider.
func (e ScrollEvent) EventTopic() topic.Topic {
	return e.Topic
}
