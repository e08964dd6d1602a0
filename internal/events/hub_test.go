package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastAndSendToUser(t *testing.T) {
	h := NewHub(4)
	a := h.Subscribe(1)
	b := h.Subscribe(2)
	defer h.Unsubscribe(a)
	defer h.Unsubscribe(b)

	assert.Equal(t, 2, h.ConnectionCount())
	assert.NotEqual(t, a.ID, b.ID)

	n := h.Broadcast("order_sync", map[string]any{"orderId": 5})
	assert.Equal(t, 2, n)

	msg := <-a.C
	assert.Equal(t, "order_sync", msg.Event)
	var body map[string]int
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	assert.Equal(t, 5, body["orderId"])
	<-b.C

	n = h.SendToUser(2, "ping", "hi")
	assert.Equal(t, 1, n)
	assert.Len(t, a.C, 0)
	assert.Len(t, b.C, 1)
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(1)
	sub := h.Subscribe(0)
	defer h.Unsubscribe(sub)

	assert.Equal(t, 1, h.Broadcast("e", 1))
	assert.Equal(t, 0, h.Broadcast("e", 2))
	assert.Equal(t, int64(1), h.Dropped())
}

func TestHub_UnsubscribeClosesChannelOnce(t *testing.T) {
	h := NewHub(1)
	sub := h.Subscribe(3)

	h.Unsubscribe(sub)
	h.Unsubscribe(sub)

	_, open := <-sub.C
	assert.False(t, open)
	assert.Zero(t, h.ConnectionCount())
	assert.Zero(t, h.Broadcast("e", nil))
}

func TestHub_UnserializablePayload(t *testing.T) {
	h := NewHub(1)
	sub := h.Subscribe(0)
	defer h.Unsubscribe(sub)

	assert.Zero(t, h.Broadcast("e", make(chan int)))
}
