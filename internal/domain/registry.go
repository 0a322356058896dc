package domain

import "sync"

// Registry is the process-wide map of room ID to room. Rooms are created
// lazily on first reference and live until the process exits; there is no
// eviction because room state is explicitly allowed to die with the process.
type Registry struct {
	rooms map[string]*Room
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// GetOrCreate returns the room for roomID, creating an empty one if this is
// the first event to reference it. Safe for concurrent use; two racing
// callers always end up with the same *Room.
func (r *Registry) GetOrCreate(roomID string) *Room {
	r.mu.RLock()
	room, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if ok {
		return room
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check: another goroutine may have created it between the locks.
	if room, ok := r.rooms[roomID]; ok {
		return room
	}

	room = NewRoom(roomID)
	r.rooms[roomID] = room
	return room
}

// Get returns the room if it already exists.
func (r *Registry) Get(roomID string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	return room, ok
}

// Len reports how many rooms the process currently tracks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
