package main

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket connection. A fresh connection ID is minted per
// connection; player identity is the display name given on joinGame, so
// reconnects land on the same player with a new Client.
type Client struct {
	conn *websocket.Conn
	send chan any
	id   string
	room *Room
}

func serveWS(cfg *Config, registry *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "SERVE: Websocket upgrade failed for %s: %v", realIP(r), err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 16),
			id:   uuid.NewString(),
		}

		go client.writePump()
		client.readPump(cfg, registry)
	}
}

func (c *Client) readPump(cfg *Config, registry *Registry) {
	defer func() {
		c.teardown()
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.dispatch(cfg, registry, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// teardown releases the connection's resources once the read loop returns.
// A joined client's send channel is owned by its room and closed by
// disconnect; before any join, nothing else owns the channel, so it is
// closed here to let writePump exit.
func (c *Client) teardown() {
	if c.room != nil {
		c.room.disconnect(c)
		return
	}
	close(c.send)
}

// trySend queues a message for this client without blocking. Used before
// the client has joined a room; afterwards the room's send helpers own
// delivery.
func (c *Client) trySend(msg any) {
	select {
	case c.send <- msg:
	default:
	}
}

// dispatch routes one inbound event. createGame and joinGame resolve the
// room; everything else requires the connection to already be in one.
func (c *Client) dispatch(cfg *Config, registry *Registry, msg ClientMessage) {
	switch msg.Type {
	case "createGame":
		if c.room != nil {
			return
		}
		if msg.HostName == "" {
			c.trySend(ErrorMessage{Type: "errorMsg", Message: "A host name is required."})
			return
		}
		room := registry.createRoom(msg.HostName, msg.Language)
		logf(cfg, "GAMES: Created room %s (language %s) for %q", room.id, room.language, msg.HostName)
		c.trySend(GameCreatedMessage{Type: "gameCreated", RoomID: room.id})

	case "joinGame":
		if c.room != nil {
			// One room per connection; reconnect with a fresh socket to
			// switch rooms.
			c.room.sendTo(c, ErrorMessage{Type: "errorMsg", Message: "Already in a room."})
			return
		}
		if msg.PlayerName == "" {
			c.trySend(ErrorMessage{Type: "errorMsg", Message: "A player name is required."})
			return
		}
		room := registry.lookup(msg.RoomID)
		if room == nil {
			c.trySend(ErrorMessage{Type: "errorMsg", Message: "Room not found!"})
			return
		}
		c.room = room
		room.join(cfg, c, msg.PlayerName)

	case "assignTeam":
		if c.room != nil {
			c.room.assignTeam(c, msg.PlayerID, msg.TeamNum)
		}
	case "kickPlayer":
		if c.room != nil {
			c.room.kickPlayer(c, msg.PlayerID)
		}
	case "startGame":
		if c.room != nil {
			c.room.startGame(c, msg.TimerSetting)
		}
	case "confirmStartTurn":
		if c.room != nil {
			c.room.confirmStartTurn(c)
		}
	case "sendGuess":
		if c.room != nil {
			c.room.sendGuess(c, msg.RawInput)
		}
	case "forceSkip":
		if c.room != nil {
			c.room.forceSkip(c)
		}
	case "hostRemoveStuckDescriber":
		if c.room != nil {
			c.room.hostRemoveStuckDescriber(c)
		}
	case "startNextTurnManual":
		if c.room != nil {
			c.room.startNextTurn(c)
		}
	case "resetGame":
		if c.room != nil {
			c.room.resetGame(c, msg.NewLanguage)
		}
	default:
		// ignore unknown types
	}
}
