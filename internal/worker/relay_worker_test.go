package worker

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
)

type recordingDeliverer struct {
	events []events.Event
}

func (r *recordingDeliverer) Deliver(event events.Event) (int, int) {
	r.events = append(r.events, event)
	return 1, 0
}

func TestRelayHandleDeliversDecodedEvents(t *testing.T) {
	hub := &recordingDeliverer{}
	w := NewRelayWorker(nil, "tickets", hub, zap.NewNop())

	w.handle(`{"type":"TicketUpdated","ticket_id":12}`)
	w.handle(`garbage`)

	if len(hub.events) != 1 {
		t.Fatalf("delivered %d events, want 1", len(hub.events))
	}
	if hub.events[0].TicketID != 12 {
		t.Errorf("ticket id = %d, want 12", hub.events[0].TicketID)
	}
}

func TestStartNilWorker(t *testing.T) {
	Start(context.Background(), nil)
}
