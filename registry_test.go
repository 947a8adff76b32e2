package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoom(t *testing.T) {
	t.Parallel()

	registry := newRegistry(&Config{defaultLanguage: "en"}, gameCorpus(), 0)

	t.Run("known language", func(t *testing.T) {
		t.Parallel()
		room := registry.createRoom("alice", "fr")
		assert.Equal(t, "fr", room.language)
		assert.Equal(t, "alice", room.hostName)
		assert.Same(t, room, registry.lookup(room.id))
	})

	t.Run("unknown language falls back to default", func(t *testing.T) {
		t.Parallel()
		room := registry.createRoom("bob", "martian")
		assert.Equal(t, "en", room.language)
	})
}

func TestRoomIDFormat(t *testing.T) {
	t.Parallel()

	registry := newRegistry(&Config{defaultLanguage: "en"}, gameCorpus(), 0)

	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		room := registry.createRoom("host", "en")
		require.Len(t, room.id, 5)
		for _, r := range room.id {
			assert.Contains(t, roomIDAlphabet, string(r))
		}
		assert.False(t, seen[room.id], "duplicate room id %s", room.id)
		seen[room.id] = true
	}
}

func TestLookupUnknownRoom(t *testing.T) {
	t.Parallel()

	registry := newRegistry(&Config{defaultLanguage: "en"}, gameCorpus(), 0)
	assert.Nil(t, registry.lookup("ZZZZZ"))
}

func TestReapEvictsIdleRooms(t *testing.T) {
	t.Parallel()

	registry := newRegistry(&Config{defaultLanguage: "en"}, gameCorpus(), 0)

	idle := registry.createRoom("alice", "en")
	active := registry.createRoom("bob", "en")

	idle.mu.Lock()
	idle.lastActive = time.Now().Add(-time.Hour)
	idle.mu.Unlock()

	registry.reap(time.Now().Add(-30 * time.Minute))

	assert.Nil(t, registry.lookup(idle.id))
	assert.Same(t, active, registry.lookup(active.id))
}

func TestReapClosesClients(t *testing.T) {
	t.Parallel()

	registry := newRegistry(&Config{defaultLanguage: "en"}, gameCorpus(), 0)
	room := registry.createRoom("alice", "en")

	c := newTestClient()
	room.join(&Config{}, c, "alice")

	room.mu.Lock()
	room.lastActive = time.Now().Add(-time.Hour)
	room.mu.Unlock()

	registry.reap(time.Now())

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-c.send:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
