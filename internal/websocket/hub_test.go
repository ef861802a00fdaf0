package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHub(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	// Mock clients for two users
	alice := &Client{hub: hub, send: make(chan []byte, 1), userID: "alice"}
	bob := &Client{hub: hub, send: make(chan []byte, 1), userID: "bob"}

	hub.register <- alice
	hub.register <- bob
	assert.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.NotifyUser("alice", map[string]string{"type": "watchlist.updated"})

	select {
	case received := <-alice.send:
		assert.JSONEq(t, `{"type":"watchlist.updated"}`, string(received))
	case <-time.After(1 * time.Second):
		t.Fatal("Client did not receive message in time")
	}

	select {
	case received := <-bob.send:
		t.Fatalf("Message leaked to another user: %s", received)
	case <-time.After(50 * time.Millisecond):
	}

	hub.unregister <- alice
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHubRunReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	carol := &Client{hub: hub, send: make(chan []byte, 1), userID: "carol"}
	hub.register <- carol
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 0, hub.ClientCount())

	_, open := <-carol.send
	assert.False(t, open, "client send channel should be closed")

	select {
	case hub.unregister <- carol:
		t.Fatal("stopped hub accepted an unregister")
	case <-hub.done:
	}
}
