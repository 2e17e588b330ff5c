package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesOnlySubscribedRoom(t *testing.T) {
	h := NewHub()

	chatClient := make(Client, 1)
	sessionClient := make(Client, 1)
	h.Subscribe(ChatRoom, chatClient)
	h.Subscribe(SessionRoom(7), sessionClient)

	h.Broadcast(ChatRoom, Event{Type: "message.created", Payload: "hello"})

	select {
	case raw := <-chatClient:
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.Equal(t, "message.created", ev.Type)
	default:
		t.Fatal("chat client received nothing")
	}

	select {
	case <-sessionClient:
		t.Fatal("session client should not receive chat events")
	default:
	}
}

func TestUnsubscribeClosesClient(t *testing.T) {
	h := NewHub()
	client := make(Client, 1)
	h.Subscribe(SessionRoom(1), client)
	h.Unsubscribe(SessionRoom(1), client)

	_, open := <-client
	assert.False(t, open)

	// Unsubscribing twice is harmless.
	h.Unsubscribe(SessionRoom(1), client)
}

func TestBroadcastSkipsSlowClient(t *testing.T) {
	h := NewHub()
	client := make(Client) // unbuffered, nobody reading
	h.Subscribe(ChatRoom, client)

	// Must not block.
	h.Broadcast(ChatRoom, Event{Type: "message.created"})
}
