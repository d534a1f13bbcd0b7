package ws

import (
	"encoding/json"
	"log"

	"github.com/inklineapp/inkline/backend/internal/board"
	"github.com/inklineapp/inkline/backend/internal/protocol"
	"github.com/inklineapp/inkline/backend/internal/room"
)

// Routes all connection events through a single goroutine: joins, leaves
// and every inbound message are processed to completion (including fan-out)
// before the next, so each room's stroke log sees a total order of
// mutations without locking.
type Hub struct {
	registry *room.Registry

	register   chan *Client
	unregister chan *Client
	inbound    chan *inboundMessage
}

type inboundMessage struct {
	client *Client
	data   []byte
}

func NewHub(registry *room.Registry) *Hub {
	return &Hub{
		registry:   registry,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan *inboundMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case msg := <-h.inbound:
			h.handleMessage(msg.client, msg.data)
		}
	}
}

func (h *Hub) handleRegister(c *Client) {
	r := h.registry.GetRoom(c.roomID)
	c.room = r
	r.Join(c)

	incConnections()
	setRooms(h.registry.Len())

	// The welcome carries everything a late joiner needs to replay the
	// canvas: its identity, the roster and the committed strokes
	roster := r.Roster()
	users := make([]protocol.User, len(roster))
	for i, u := range roster {
		users[i] = protocol.User{ID: u.ID, Color: u.Color}
	}

	c.Enqueue(encode(protocol.Welcome{
		Type:    protocol.TypeWelcome,
		ID:      c.id,
		Color:   c.color,
		Users:   users,
		Strokes: r.Strokes(),
	}))

	h.broadcast(r, protocol.UserJoined{
		Type:  protocol.TypeUserJoined,
		ID:    c.id,
		Color: c.color,
	}, c.id)

	log.Printf("User %s joined room %s (total: %d)", c.id, r.ID, r.MemberCount())
}

func (h *Hub) handleUnregister(c *Client) {
	if c.room == nil || !c.room.Leave(c.id) {
		return
	}
	close(c.send)
	decConnections()

	h.broadcast(c.room, protocol.UserLeft{
		Type: protocol.TypeUserLeft,
		ID:   c.id,
	}, c.id)

	log.Printf("User %s left room %s (remaining: %d)", c.id, c.room.ID, c.room.MemberCount())
}

// Dispatches one inbound payload per the event table: stroke lifecycle
// events mutate the room's log and are relayed to peers with the sender's
// id attached; undo/redo reconcile everyone (sender included) with a full
// sync; anything malformed, unknown or stray is dropped silently.
func (h *Hub) handleMessage(c *Client, data []byte) {
	r := c.room
	if r == nil {
		return
	}

	msg, err := protocol.Decode(data)
	if err != nil {
		incRejected()
		return
	}

	switch m := msg.(type) {
	case *protocol.StrokeStart:
		r.StartStroke(c.id, m.Tool, m.Color, m.Width, board.Point{X: m.X, Y: m.Y})
		m.From = c.id
		h.broadcast(r, m, c.id)

	case *protocol.StrokePoint:
		if !r.AddPoint(c.id, board.Point{X: m.X, Y: m.Y}) {
			return
		}
		m.From = c.id
		h.broadcast(r, m, c.id)

	case *protocol.StrokeEnd:
		if !r.EndStroke(c.id) {
			return
		}
		h.broadcast(r, protocol.StrokeEnd{Type: protocol.TypeStrokeEnd, From: c.id}, c.id)

	case *protocol.StrokeRect:
		r.CommitRect(c.id, m.Color, m.Width, m.Start, m.End)
		m.From = c.id
		h.broadcast(r, m, c.id)

	case *protocol.Cursor:
		m.From = c.id
		h.broadcast(r, m, c.id)

	case *protocol.Undo:
		strokes, ok := r.Undo()
		if !ok {
			return
		}
		h.broadcast(r, protocol.Sync{Type: protocol.TypeSync, Strokes: strokes}, "")

	case *protocol.Redo:
		strokes, ok := r.Redo()
		if !ok {
			return
		}
		h.broadcast(r, protocol.Sync{Type: protocol.TypeSync, Strokes: strokes}, "")
	}
}

// Marshals and fans out to the room, excluding exceptID ("" for everyone).
// Fire-and-forget: full buffers count as drops and are never awaited.
func (h *Hub) broadcast(r *room.Room, v interface{}, exceptID string) {
	data := encode(v)
	if data == nil {
		return
	}
	delivered, dropped := r.Broadcast(data, exceptID)
	addRelayed(delivered)
	addDropped(dropped)
}

func encode(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error encoding %T: %v", v, err)
		return nil
	}
	return data
}
