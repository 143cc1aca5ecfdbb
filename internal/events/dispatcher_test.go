package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishInvokesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []Event
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventTicketCommentAdded, func(_ context.Context, e Event) error {
		t.Fatalf("comment handler must not fire for %s", e.Type)
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketUID: 7}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(got) != 1 || got[0].TicketUID != 7 {
		t.Fatalf("unexpected events %#v", got)
	}
}

func TestPublishContinuesPastFailingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	fired := false
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		fired = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCreated}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !fired {
		t.Fatal("second handler did not run after first failed")
	}
}
