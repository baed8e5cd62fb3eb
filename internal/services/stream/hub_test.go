package stream

import (
	"testing"
	"time"

	"fxradar/internal/platform/logger"
	news "fxradar/internal/services/news/domain"
)

func rec(id string) news.Record {
	var r news.Record
	r.ID = id
	return r
}

func recv(t *testing.T, sub *Subscriber) news.Record {
	t.Helper()
	select {
	case r := <-sub.C:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return news.Record{}
	}
}

func TestHubDeliversInOrder(t *testing.T) {
	h := NewHub(*logger.Get())
	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	h.Publish(rec("a"))
	h.Publish(rec("b"))
	h.Publish(rec("c"))

	for _, want := range []string{"a", "b", "c"} {
		if got := recv(t, sub).ID; got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}

func TestHubLateSubscriberMissesEarlierEvents(t *testing.T) {
	h := NewHub(*logger.Get())
	early := h.Subscribe()
	defer h.Unsubscribe(early)

	h.Publish(rec("e1"))
	if got := recv(t, early).ID; got != "e1" {
		t.Fatalf("early subscriber got %q, want e1", got)
	}

	late := h.Subscribe()
	defer h.Unsubscribe(late)

	h.Publish(rec("e2"))
	if got := recv(t, early).ID; got != "e2" {
		t.Fatalf("early subscriber got %q, want e2", got)
	}
	if got := recv(t, late).ID; got != "e2" {
		t.Fatalf("late subscriber got %q, want e2", got)
	}
}

func TestHubSlowReaderDoesNotBlockPublish(t *testing.T) {
	h := NewHub(*logger.Get())
	slow := h.Subscribe()
	defer h.Unsubscribe(slow)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			h.Publish(rec("x"))
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow reader")
	}
	// the slow reader still gets everything, in order
	for i := 0; i < 1000; i++ {
		recv(t, slow)
	}
}

func TestHubUnsubscribeIsIdempotentAndSafe(t *testing.T) {
	h := NewHub(*logger.Get())
	sub := h.Subscribe()
	h.Unsubscribe(sub)
	h.Unsubscribe(sub)

	// a gone subscriber never receives, and publish stays safe
	h.Publish(rec("after"))
	select {
	case r, ok := <-sub.C:
		if ok {
			t.Fatalf("unsubscribed listener received %q", r.ID)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("subscriber channel not closed after unsubscribe")
	}
	if h.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", h.Len())
	}
}
