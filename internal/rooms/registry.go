package rooms

import "sync"

// Registry owns the table of active rooms. Rooms are created lazily on first
// join and removed the moment their participant count reaches zero.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the room with the given id, creating it if absent.
// Creation is idempotent by id.
func (g *Registry) GetOrCreate(id string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[id]
	if !ok {
		room = NewRoom(id)
		g.rooms[id] = room
	}

	return room
}

func (g *Registry) Get(id string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[id]
	return room, ok
}

func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.rooms)
}

// RemoveIfEmpty deletes the room only if it still has no participants at the
// moment of removal. A join that raced in after the caller's own mutation
// keeps the room alive.
func (g *Registry) RemoveIfEmpty(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[id]
	if !ok {
		return false
	}

	if !room.closeIfEmpty() {
		return false
	}

	delete(g.rooms, id)
	return true
}

// ForEach calls fn for every room registered at the time of the call. The
// registry lock is not held during the callbacks.
func (g *Registry) ForEach(fn func(*Room)) {
	g.mu.Lock()
	snapshot := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		snapshot = append(snapshot, room)
	}
	g.mu.Unlock()

	for _, room := range snapshot {
		fn(room)
	}
}
