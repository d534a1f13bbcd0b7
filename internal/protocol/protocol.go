package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inklineapp/inkline/backend/internal/board"
)

// Message type discriminators, client to server
const (
	TypeStrokeStart = "stroke-start"
	TypeStrokePoint = "stroke-point"
	TypeStrokeEnd   = "stroke-end"
	TypeStrokeRect  = "stroke-rect"
	TypeCursor      = "cursor"
	TypeUndo        = "undo"
	TypeRedo        = "redo"
)

// Message type discriminators, server to client
const (
	TypeWelcome    = "welcome"
	TypeUserJoined = "user-joined"
	TypeUserLeft   = "user-left"
	TypeSync       = "sync"
)

// Returned by Decode for a well-formed envelope with an unrecognized type
// tag; the relay drops these silently
var ErrUnknownType = errors.New("unknown message type")

// The closed set of messages a client may send. Decode produces exactly
// one of the pointer variants below.
type ClientMessage interface {
	clientMessage()
}

// Begins a freehand stroke at the origin point with the sender's current
// tool state. From is empty on the wire from clients and filled in by the
// relay before fan-out.
type StrokeStart struct {
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Tool  string  `json:"tool"`
	Color string  `json:"color"`
	Width int     `json:"width"`
	From  string  `json:"from,omitempty"`
}

// Extends the sender's in-progress stroke
type StrokePoint struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	From string  `json:"from,omitempty"`
}

// Commits the sender's in-progress stroke
type StrokeEnd struct {
	Type string `json:"type"`
	From string `json:"from,omitempty"`
}

// An atomic rectangle, committed on arrival with no start/point/end
// lifecycle. Start and End are opposite corners.
type StrokeRect struct {
	Type  string      `json:"type"`
	Start board.Point `json:"start"`
	End   board.Point `json:"end"`
	Color string      `json:"color"`
	Width int         `json:"width"`
	From  string      `json:"from,omitempty"`
}

// Ephemeral pointer position, relayed and never stored
type Cursor struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	From string  `json:"from,omitempty"`
}

type Undo struct {
	Type string `json:"type"`
}

type Redo struct {
	Type string `json:"type"`
}

func (*StrokeStart) clientMessage() {}
func (*StrokePoint) clientMessage() {}
func (*StrokeEnd) clientMessage()   {}
func (*StrokeRect) clientMessage()  {}
func (*Cursor) clientMessage()      {}
func (*Undo) clientMessage()        {}
func (*Redo) clientMessage()        {}

// Roster entry inside a Welcome
type User struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

// Sent once to each new connection: its assigned identity and color, the
// full roster (including itself) and the committed strokes to replay
type Welcome struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Color   string          `json:"color"`
	Users   []User          `json:"users"`
	Strokes []*board.Stroke `json:"strokes"`
}

type UserJoined struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Color string `json:"color"`
}

type UserLeft struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Full-state reconcile broadcast after undo/redo, sent to every room
// member including the one that triggered it
type Sync struct {
	Type    string          `json:"type"`
	Strokes []*board.Stroke `json:"strokes"`
}

// Decodes a client payload into its tagged variant. Unparseable payloads
// and unrecognized type tags are errors; callers drop both silently.
func Decode(data []byte) (ClientMessage, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unparseable payload: %w", err)
	}

	var msg ClientMessage
	switch env.Type {
	case TypeStrokeStart:
		msg = &StrokeStart{}
	case TypeStrokePoint:
		msg = &StrokePoint{}
	case TypeStrokeEnd:
		msg = &StrokeEnd{}
	case TypeStrokeRect:
		msg = &StrokeRect{}
	case TypeCursor:
		msg = &Cursor{}
	case TypeUndo:
		msg = &Undo{}
	case TypeRedo:
		msg = &Redo{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("malformed %s payload: %w", env.Type, err)
	}
	return msg, nil
}
