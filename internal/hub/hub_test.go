package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/wordduel-backend/pkg/types"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, zap.NewNop())
}

func recv(t *testing.T, ch <-chan types.ServerMessage) types.ServerMessage {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "outbox closed unexpectedly")
		return msg
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timed out waiting for message")
		return types.ServerMessage{}
	}
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	h := newTestHub(t)
	a := make(chan types.ServerMessage, 4)
	b := make(chan types.ServerMessage, 4)
	h.Register("a", a)
	h.Register("b", b)

	h.Broadcast(types.EventMessage("hello"))

	assert.Equal(t, "hello", recv(t, a).Message)
	assert.Equal(t, "hello", recv(t, b).Message)
}

func TestHub_SendToTargetsOneClient(t *testing.T) {
	h := newTestHub(t)
	a := make(chan types.ServerMessage, 4)
	b := make(chan types.ServerMessage, 4)
	h.Register("a", a)
	h.Register("b", b)

	h.SendTo("b", types.LetterMessage("Q"))
	h.SendTo("missing", types.LetterMessage("Q"))

	assert.Equal(t, "Q", recv(t, b).Letter)
	assert.Equal(t, 2, h.Stats().NumClients)
	assert.Empty(t, a)
}

func TestHub_DropSlowClient(t *testing.T) {
	h := newTestHub(t)
	slow := make(chan types.ServerMessage, 1)
	h.Register("slow", slow)

	h.Broadcast(types.EventMessage("one"))
	h.Broadcast(types.EventMessage("two"))

	assert.Equal(t, 0, h.Stats().NumClients)
	assert.Equal(t, "one", (<-slow).Message)
	_, ok := <-slow
	assert.False(t, ok, "dropped client outbox is closed")
}

func TestHub_UnregisterClosesOutbox(t *testing.T) {
	h := newTestHub(t)
	out := make(chan types.ServerMessage, 1)
	h.Register("a", out)
	h.Unregister("a")
	h.Unregister("a")

	assert.Equal(t, 0, h.Stats().NumClients)
	_, ok := <-out
	assert.False(t, ok)
}

func TestHub_StopClosesAllOutboxes(t *testing.T) {
	h := newTestHub(t)
	out := make(chan types.ServerMessage, 1)
	h.Register("a", out)
	require.Equal(t, 1, h.Stats().NumClients)

	h.Stop()

	_, ok := <-out
	assert.False(t, ok)
	assert.Equal(t, Stats{}, h.Stats())
}
