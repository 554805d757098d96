// Package events defines the typed payloads flowing through the event bus:
// touch dispatch, scroll surface notifications, and software-keyboard
// transitions.
package events

import (
	"time"

	"github.com/dshills/scrollkit/internal/event/topic"
	"github.com/dshills/scrollkit/internal/geometry"
)

// Keyboard broadcaster topics.
const (
	// TopicKeyboardWillShow is published before the keyboard animates in.
	TopicKeyboardWillShow topic.Topic = "keyboard.willShow"

	// TopicKeyboardDidShow is published after the keyboard is fully shown.
	TopicKeyboardDidShow topic.Topic = "keyboard.didShow"

	// TopicKeyboardWillHide is published before the keyboard animates out.
	TopicKeyboardWillHide topic.Topic = "keyboard.willHide"

	// TopicKeyboardDidHide is published after the keyboard is fully hidden.
	TopicKeyboardDidHide topic.Topic = "keyboard.didHide"
)

// KeyboardEvent carries one keyboard transition notification. EndCoordinates
// is always present; StartCoordinates is optional (platform-dependent).
type KeyboardEvent struct {
	// Topic identifies which keyboard transition this is.
	Topic topic.Topic

	// EndCoordinates is the keyboard frame at the end of the transition.
	// EndCoordinates.ScreenY is the top edge used for scroll-to-keyboard
	// offset computation.
	EndCoordinates geometry.Frame

	// StartCoordinates is the frame at the start of the transition, when
	// the platform reports one.
	StartCoordinates *geometry.Frame

	// Duration is the animation duration reported by the platform.
	Duration time.Duration

	// Timestamp is when the notification was broadcast.
	Timestamp time.Time
}

// EventTopic implements event.TopicProvider.
func (e KeyboardEvent) EventTopic() topic.Topic {
	return e.Topic
}

// HasFrame reports whether the notification carried a keyboard frame. Some
// platforms emit did-show without one.
func (e KeyboardEvent) HasFrame() bool {
	return e.EndCoordinates != (geometry.Frame{})
}
