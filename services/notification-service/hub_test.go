package main

import (
	"testing"
	"time"
)

func newSub(buffer int) *Subscriber {
	return &Subscriber{ID: "test", Send: make(chan []byte, buffer)}
}

func recv(t *testing.T, s *Subscriber) []byte {
	t.Helper()
	select {
	case payload := <-s.Send:
		return payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func TestHubBroadcastFanOut(t *testing.T) {
	h := NewHub()
	a := newSub(1)
	b := newSub(1)
	h.Register(a)
	h.Register(b)

	h.Broadcast([]byte(`{"type":"new_report"}`))

	for _, s := range []*Subscriber{a, b} {
		if got := string(recv(t, s)); got != `{"type":"new_report"}` {
			t.Errorf("subscriber got %q", got)
		}
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	slow := newSub(1)
	h.Register(slow)

	// First event fills the buffer; the second is dropped, not queued.
	h.Broadcast([]byte(`first`))
	h.Broadcast([]byte(`second`))

	if got := string(recv(t, slow)); got != "first" {
		t.Fatalf("got %q, want first", got)
	}
	select {
	case payload := <-slow.Send:
		t.Fatalf("unexpected second delivery: %q", payload)
	default:
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	h := NewHub()
	s := newSub(1)
	h.Register(s)
	h.Unregister(s)

	if h.Count() != 0 {
		t.Fatalf("count = %d, want 0", h.Count())
	}

	// Channel is closed on unregister so the serving loop unwinds.
	if _, open := <-s.Send; open {
		t.Fatal("send channel still open after unregister")
	}

	h.Broadcast([]byte(`late`))
}

func TestHubUnregisterTwice(t *testing.T) {
	h := NewHub()
	s := newSub(1)
	h.Register(s)
	h.Unregister(s)
	// Second unregister must not panic on the already-closed channel.
	h.Unregister(s)
}
