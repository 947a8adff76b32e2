package main

import (
	"crypto/rand"
	"sync"
	"time"
)

// Registry owns every room, keyed by room code. It is the only way rooms
// are created or found, and the only thing that ever removes one: rooms
// idle longer than idleTimeout are reaped.
type Registry struct {
	mu          sync.Mutex
	rooms       map[string]*Room
	cfg         *Config
	corpus      Corpus
	idleTimeout time.Duration
}

func newRegistry(cfg *Config, corpus Corpus, idleTimeout time.Duration) *Registry {
	registry := &Registry{
		rooms:       make(map[string]*Room),
		cfg:         cfg,
		corpus:      corpus,
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		go registry.reaperLoop()
	}
	return registry
}

// createRoom generates a unique code and registers a fresh room. Unknown
// languages fall back to the configured default.
func (g *Registry) createRoom(hostName, language string) *Room {
	if _, ok := g.corpus[language]; !ok {
		language = g.cfg.defaultLanguage
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.newRoomIDLocked()
	room := newRoom(id, hostName, language, g.corpus)
	g.rooms[id] = room
	return room
}

// lookup returns the room for a code, or nil.
func (g *Registry) lookup(id string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rooms[id]
}

// Room codes are short, uppercase, and unambiguous enough to read out loud.
const roomIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newRoomIDLocked generates a crypto-random room code, retrying on the
// rare collision with a live room.
func (g *Registry) newRoomIDLocked() string {
	const idLength = 5
	for {
		buf := make([]byte, idLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, idLength)
		for i := range out {
			out[i] = roomIDAlphabet[int(buf[i])%len(roomIDAlphabet)]
		}
		id := string(out)

		if _, exists := g.rooms[id]; !exists {
			return id
		}
	}
}

// reaperLoop periodically removes rooms that have been idle longer than
// idleTimeout.
func (g *Registry) reaperLoop() {
	ticker := time.NewTicker(g.idleTimeout / 2)
	for range ticker.C {
		g.reap(time.Now().Add(-g.idleTimeout))
	}
}

// reap evicts every room whose last activity predates cutoff, closing its
// clients.
func (g *Registry) reap(cutoff time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for id, room := range g.rooms {
		if room.lastActiveTime().Before(cutoff) {
			delete(g.rooms, id)
			logf(g.cfg, "GAMES: Reaped idle room %s", id)
			go room.closeAll()
		}
	}
}
