package board

import (
	"github.com/google/uuid"
)

// Tool names as they appear on the wire
const (
	ToolBrush  = "brush"
	ToolEraser = "eraser"
	ToolRect   = "rect"
)

// A single canvas-space coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// One continuous or atomic drawing action with fixed tool, color and width.
// A rect stroke has exactly two points interpreted as opposite corners.
type Stroke struct {
	ID     string  `json:"id"`
	UserID string  `json:"userId"`
	Tool   string  `json:"tool"`
	Color  string  `json:"color"`
	Width  int     `json:"width"`
	Points []Point `json:"points"`
}

// Appends a point while the stroke is in progress
func (s *Stroke) AddPoint(p Point) {
	s.Points = append(s.Points, p)
}

// The authoritative drawing history for one room: the ordered committed
// strokes plus the redo stack (most recently undone on top).
//
// No locking here: a Log is only ever driven from the hub's event goroutine,
// which serializes all mutations for a room.
type Log struct {
	strokes []*Stroke
	redo    []*Stroke
}

func NewLog() *Log {
	return &Log{
		strokes: make([]*Stroke, 0),
		redo:    make([]*Stroke, 0),
	}
}

// Allocates a new in-progress stroke with a fresh ID and a single origin
// point. The committed history is untouched until Commit.
func (l *Log) StartStroke(userID, tool, color string, width int, origin Point) *Stroke {
	return &Stroke{
		ID:     uuid.NewString(),
		UserID: userID,
		Tool:   tool,
		Color:  color,
		Width:  width,
		Points: []Point{origin},
	}
}

// Appends a stroke to the committed history and invalidates the redo stack.
// Not idempotent: committing the same stroke twice duplicates it, matching
// the lifecycle callers are expected to enforce.
func (l *Log) Commit(s *Stroke) {
	l.strokes = append(l.strokes, s)
	l.redo = l.redo[:0]
}

// Removes the most recent committed stroke and pushes it onto the redo
// stack. Returns the resulting history and true, or nil and false when
// there is nothing to undo. An empty slice with ok=true is a valid result
// (the last stroke was undone); the bool is the no-op sentinel.
func (l *Log) Undo() ([]*Stroke, bool) {
	if len(l.strokes) == 0 {
		return nil, false
	}
	last := l.strokes[len(l.strokes)-1]
	l.strokes = l.strokes[:len(l.strokes)-1]
	l.redo = append(l.redo, last)
	return l.Snapshot(), true
}

// Pops the most recently undone stroke back onto the committed history.
// Same return convention as Undo.
func (l *Log) Redo() ([]*Stroke, bool) {
	if len(l.redo) == 0 {
		return nil, false
	}
	last := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.strokes = append(l.strokes, last)
	return l.Snapshot(), true
}

// Returns a copy of the committed history, used to replay the canvas to
// late joiners
func (l *Log) Snapshot() []*Stroke {
	strokes := make([]*Stroke, len(l.strokes))
	copy(strokes, l.strokes)
	return strokes
}

// Number of committed strokes
func (l *Log) Len() int {
	return len(l.strokes)
}
