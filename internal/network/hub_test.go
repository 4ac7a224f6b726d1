package network

import (
	"echoes-server/pkg/api"
	"echoes-server/pkg/logger"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestBroadcaster_BroadcastAndUnicast(t *testing.T) {
	b := NewBroadcaster("ROOM01")
	a := b.Register("a")
	c := b.Register("c")

	assert.Equal(t, 2, b.Broadcast(api.ServerMessage{Type: api.MsgSync}))
	assert.Equal(t, api.MsgSync, (<-a).Type)
	assert.Equal(t, api.MsgSync, (<-c).Type)

	require.True(t, b.SendTo("a", api.ServerMessage{Type: api.MsgError, Error: "nope"}))
	assert.Equal(t, "nope", (<-a).Error)
	assert.Empty(t, c)

	assert.False(t, b.SendTo("missing", api.ServerMessage{Type: api.MsgSync}))
}

func TestBroadcaster_Unregister(t *testing.T) {
	b := NewBroadcaster("ROOM01")
	ch := b.Register("a")
	b.Unregister("a")
	b.Unregister("a")

	_, open := <-ch
	assert.False(t, open, "channel is closed on unregister")
	assert.False(t, b.HasSubscriber("a"))
	assert.Zero(t, b.SubscriberCount())
}

func TestBroadcaster_FullChannelDrops(t *testing.T) {
	b := NewBroadcaster("ROOM01")
	b.Register("slow")
	for i := 0; i < SubscriberBuffer; i++ {
		require.Equal(t, 1, b.Broadcast(api.ServerMessage{Type: api.MsgSync}))
	}
	assert.Equal(t, 0, b.Broadcast(api.ServerMessage{Type: api.MsgSync}))
	assert.True(t, b.HasSubscriber("slow"), "slow client stays registered")
}

func TestBroadcaster_ReRegisterClosesOld(t *testing.T) {
	b := NewBroadcaster("ROOM01")
	old := b.Register("a")
	fresh := b.Register("a")

	_, open := <-old
	assert.False(t, open)
	b.Broadcast(api.ServerMessage{Type: api.MsgSync})
	assert.Len(t, fresh, 1)
}
