package room

import (
	"sync"
)

// Room used when a connection does not name one
const DefaultID = "default"

// Process-wide map of room ID to Room. Rooms are created lazily on first
// reference and live for the process lifetime; a room's history survives
// everyone leaving. No eviction (unbounded retention is accepted here).
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Returns the room for id, creating it if absent. An empty id resolves to
// the default room. Concurrent first references to the same new id share
// one Room.
func (reg *Registry) GetRoom(id string) *Room {
	if id == "" {
		id = DefaultID
	}

	reg.mu.RLock()
	r, ok := reg.rooms[id]
	reg.mu.RUnlock()
	if ok {
		return r
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if r, ok := reg.rooms[id]; ok {
		return r
	}
	r = NewRoom(id)
	reg.rooms[id] = r
	return r
}

func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// All registered rooms, for the stats API
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}
