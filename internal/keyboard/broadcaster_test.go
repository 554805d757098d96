package keyboard

import (
	"errors"
	"testing"

	"github.com/dshills/scrollkit/internal/event"
	"github.com/dshills/scrollkit/internal/event/events"
	"github.com/dshills/scrollkit/internal/geometry"
)

func TestPublishReachesSubscriber(t *testing.T) {
	b := NewBroadcaster()

	var got []float64
	sub, err := b.Subscribe(WillShow, func(ev events.KeyboardEvent) {
		got = append(got, ev.EndCoordinates.ScreenY)
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Cancel()

	ev := events.KeyboardEvent{EndCoordinates: geometry.Frame{ScreenY: 420}}
	if err := b.Publish(WillShow, ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := b.Publish(DidShow, ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(got) != 1 || got[0] != 420 {
		t.Errorf("received = %v, want [420]", got)
	}
}

func TestSequencedDispatchOrder(t *testing.T) {
	b := NewBroadcaster()

	var order []string
	_, _ = b.Subscribe(WillHide, func(events.KeyboardEvent) {
		order = append(order, "host")
	})
	_, _ = b.Subscribe(WillHide, func(events.KeyboardEvent) {
		order = append(order, "coordinator")
	}, event.WithPriority(event.PriorityFirst))

	if err := b.Publish(WillHide, events.KeyboardEvent{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(order) != 2 || order[0] != "coordinator" || order[1] != "host" {
		t.Errorf("order = %v, want [coordinator host]", order)
	}
}

func TestUnknownNotification(t *testing.T) {
	b := NewBroadcaster()

	if _, err := b.Subscribe(Name("bogus"), func(events.KeyboardEvent) {}); !errors.Is(err, ErrUnknownNotification) {
		t.Errorf("Subscribe(bogus) = %v, want ErrUnknownNotification", err)
	}
	if err := b.Publish(Name("bogus"), events.KeyboardEvent{}); !errors.Is(err, ErrUnknownNotification) {
		t.Errorf("Publish(bogus) = %v, want ErrUnknownNotification", err)
	}
	if _, err := b.Subscribe(WillShow, nil); !errors.Is(err, event.ErrNilHandler) {
		t.Errorf("Subscribe(nil) = %v, want ErrNilHandler", err)
	}
}

func TestPublishStampsTopic(t *testing.T) {
	b := NewBroadcaster()

	var got events.KeyboardEvent
	_, _ = b.Subscribe(DidHide, func(ev events.KeyboardEvent) {
		got = ev
	})

	if err := b.Publish(DidHide, events.KeyboardEvent{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got.Topic != events.TopicKeyboardDidHide {
		t.Errorf("Topic = %q, want %q", got.Topic, events.TopicKeyboardDidHide)
	}
}

func TestNamesCoverAllTopics(t *testing.T) {
	for _, name := range Names() {
		if _, err := name.Topic(); err != nil {
			t.Errorf("Topic(%s) returned %v", name, err)
		}
	}
}
