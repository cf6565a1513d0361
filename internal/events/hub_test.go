package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/observability"
)

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case event, ok := <-sub.Events:
		if !ok {
			t.Fatal("subscription channel closed")
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHubFansOutToEverySubscriber(t *testing.T) {
	hub := NewHub(4, nil, nil)
	first := hub.Subscribe()
	second := hub.Subscribe()
	defer first.Close()
	defer second.Close()

	hub.Publish(context.Background(), 42)

	for _, sub := range []*Subscription{first, second} {
		event := receive(t, sub)
		if event.Type != EventTicketUpdated || event.TicketID != 42 {
			t.Errorf("event = %+v", event)
		}
	}
}

func TestHubSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	metrics := observability.NewMetrics()
	hub := NewHub(1, nil, metrics)
	slow := hub.Subscribe()
	fast := hub.Subscribe()
	defer slow.Close()
	defer fast.Close()

	hub.Publish(context.Background(), 1)
	receive(t, fast)

	done := make(chan struct{})
	go func() {
		hub.Publish(context.Background(), 2)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	if event := receive(t, fast); event.TicketID != 2 {
		t.Errorf("fast subscriber got ticket %d, want 2", event.TicketID)
	}
	if event := receive(t, slow); event.TicketID != 1 {
		t.Errorf("slow subscriber got ticket %d, want 1", event.TicketID)
	}
	select {
	case event := <-slow.Events:
		t.Errorf("slow subscriber should have missed ticket 2, got %+v", event)
	default:
	}

	snap := metrics.Snapshot()
	if snap.Published != 2 || snap.Delivered != 3 || snap.Dropped != 1 {
		t.Errorf("metrics = %+v", snap)
	}
}

func TestHubNoReplayForLateSubscribers(t *testing.T) {
	hub := NewHub(4, nil, nil)
	hub.Publish(context.Background(), 7)

	late := hub.Subscribe()
	defer late.Close()
	select {
	case event := <-late.Events:
		t.Fatalf("late subscriber received %+v", event)
	default:
	}
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	hub := NewHub(1, nil, nil)
	sub := hub.Subscribe()
	if hub.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount() = %d", hub.SubscriberCount())
	}
	sub.Close()
	sub.Close()
	if hub.SubscriberCount() != 0 {
		t.Fatalf("SubscriberCount() = %d after close", hub.SubscriberCount())
	}
	if _, ok := <-sub.Events; ok {
		t.Fatal("expected closed channel")
	}

	delivered, dropped := hub.Deliver(NewTicketUpdated(3))
	if delivered != 0 || dropped != 0 {
		t.Errorf("Deliver() = %d, %d with no subscribers", delivered, dropped)
	}
}

func TestHubConcurrentPublishAndClose(t *testing.T) {
	hub := NewHub(8, nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		sub := hub.Subscribe()
		go func(id int64) {
			defer wg.Done()
			hub.Publish(context.Background(), id)
		}(int64(i))
		go func() {
			defer wg.Done()
			sub.Close()
		}()
	}
	wg.Wait()
	if hub.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d", hub.SubscriberCount())
	}
}

func TestDecodeEvent(t *testing.T) {
	event, err := DecodeEvent(`{"ticket_id": 9}`)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	if event.TicketID != 9 || event.Type != EventTicketUpdated {
		t.Errorf("event = %+v", event)
	}
	if _, err := DecodeEvent("not json"); err == nil {
		t.Error("expected error for invalid payload")
	}
}
