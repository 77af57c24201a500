package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, h.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case b := <-c.send:
		var evt Event
		if err := json.Unmarshal(b, &evt); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return evt
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for message")
	}
	return Event{}
}

func TestHub_BroadcastAndTargetedDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	var last atomic.Int32
	h.OnClientCount(func(n int) { last.Store(int32(n)) })
	go h.Run(ctx)

	alice := uuid.New()
	a := NewClient(h, nil, alice)
	anon := NewClient(h, nil, uuid.Nil)
	h.Register(a)
	h.Register(anon)
	waitForClients(t, h, 2)
	deadline := time.Now().Add(time.Second)
	for last.Load() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected client count hook to report 2, got %d", last.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	n := NewNotifier(h)
	n.Publish("job.created", map[string]string{"title": "Go dev"})
	if evt := receive(t, a); evt.Type != "job.created" {
		t.Fatalf("unexpected event for alice: %+v", evt)
	}
	if evt := receive(t, anon); evt.Type != "job.created" {
		t.Fatalf("unexpected event for anonymous: %+v", evt)
	}

	n.NotifySignedOut(alice)
	if evt := receive(t, a); evt.Type != EventSignedOut {
		t.Fatalf("expected sign-out for alice, got %+v", evt)
	}
	select {
	case b := <-anon.send:
		t.Fatalf("anonymous client must not receive sign-out, got %s", b)
	case <-time.After(50 * time.Millisecond):
	}

	h.Unregister(anon)
	waitForClients(t, h, 1)
	if _, ok := <-anon.send; ok {
		t.Fatalf("expected send channel closed after unregister")
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil)
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := NewClient(h, nil, uuid.New())
	h.Register(c)
	waitForClients(t, h, 1)

	cancel()
	<-done
	if _, ok := <-c.send; ok {
		t.Fatalf("expected client channel closed on stop")
	}
	if h.ClientCount() != 0 {
		t.Fatalf("expected no clients after stop")
	}
}

func TestHub_CallsAfterStopDoNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < 2*cap(h.unregister); i++ {
			h.Unregister(NewClient(h, nil, uuid.Nil))
		}
		late := NewClient(h, nil, uuid.New())
		h.Register(late)
		if _, ok := <-late.send; ok {
			t.Errorf("expected late client closed")
		}
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("unregister blocked after hub stopped")
	}
}

func TestNotifier_NilSafe(t *testing.T) {
	var n *Notifier
	n.Publish("x", nil)
	n.NotifySignedOut(uuid.New())
	NewNotifier(nil).Publish("x", nil)
}
