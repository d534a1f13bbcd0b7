package room

import (
	"sync"
	"time"

	"github.com/inklineapp/inkline/backend/internal/board"
)

// A connected participant in a room. The websocket client satisfies this;
// tests drive rooms with in-memory implementations.
type Member interface {
	UserID() string
	UserColor() string

	// Enqueue hands a marshaled message to the member's outbound buffer
	// without blocking. Returns false when the buffer is full; the
	// message is simply dropped, never retried.
	Enqueue(data []byte) bool
}

// Roster entry sent to clients
type UserInfo struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

// An isolated collaboration session: the connected members, the committed
// stroke history and each member's in-progress stroke (at most one per
// member). In-progress strokes are owned here rather than on the
// connection so cleanup on disconnect stays in one place.
//
// All stroke mutation goes through the hub's single event goroutine; the
// mutex exists because the stats API reads counts from other goroutines.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu      sync.RWMutex
	log     *board.Log
	members map[string]Member
	active  map[string]*board.Stroke
}

func NewRoom(id string) *Room {
	return &Room{
		ID:        id,
		CreatedAt: time.Now(),
		log:       board.NewLog(),
		members:   make(map[string]Member),
		active:    make(map[string]*board.Stroke),
	}
}

func (r *Room) Join(m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[m.UserID()] = m
}

// Removes the member and discards any in-progress stroke without
// committing it. Returns false if the member was not present.
func (r *Room) Leave(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[userID]; !ok {
		return false
	}
	delete(r.members, userID)
	delete(r.active, userID)
	return true
}

// Returns the current roster, each member with its own color
func (r *Room) Roster() []UserInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]UserInfo, 0, len(r.members))
	for _, m := range r.members {
		users = append(users, UserInfo{ID: m.UserID(), Color: m.UserColor()})
	}
	return users
}

func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *Room) StrokeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.log.Len()
}

// Allocates an in-progress stroke for the user and records it as their
// active stroke, replacing any stale one
func (r *Room) StartStroke(userID, tool, color string, width int, origin board.Point) *board.Stroke {
	r.mu.Lock()
	defer r.mu.Unlock()

	stroke := r.log.StartStroke(userID, tool, color, width, origin)
	r.active[userID] = stroke
	return stroke
}

// Appends a point to the user's in-progress stroke. Returns false when the
// user has none (stray stroke-point with no matching stroke-start).
func (r *Room) AddPoint(userID string, p board.Point) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	stroke, ok := r.active[userID]
	if !ok {
		return false
	}
	stroke.AddPoint(p)
	return true
}

// Commits the user's in-progress stroke and clears their active slot.
// Returns false when the user has none.
func (r *Room) EndStroke(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	stroke, ok := r.active[userID]
	if !ok {
		return false
	}
	r.log.Commit(stroke)
	delete(r.active, userID)
	return true
}

// Commits a rectangle as an atomic two-point stroke (opposite corners),
// with no start/point/end lifecycle
func (r *Room) CommitRect(userID, color string, width int, start, end board.Point) *board.Stroke {
	r.mu.Lock()
	defer r.mu.Unlock()

	stroke := r.log.StartStroke(userID, board.ToolRect, color, width, start)
	stroke.AddPoint(end)
	r.log.Commit(stroke)
	return stroke
}

func (r *Room) Undo() ([]*board.Stroke, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Undo()
}

func (r *Room) Redo() ([]*board.Stroke, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Redo()
}

// Copy of the committed history for replay to late joiners
func (r *Room) Strokes() []*board.Stroke {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.log.Snapshot()
}

// Fans a marshaled message out to every member except exceptID (pass ""
// to include everyone). Slow members have the message dropped, never
// awaited. Returns delivered and dropped counts.
func (r *Room) Broadcast(data []byte, exceptID string) (delivered, dropped int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, m := range r.members {
		if id == exceptID {
			continue
		}
		if m.Enqueue(data) {
			delivered++
		} else {
			dropped++
		}
	}
	return delivered, dropped
}
