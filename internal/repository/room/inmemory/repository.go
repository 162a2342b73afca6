// Package inmemory holds the process-wide room registry. The registry lock
// only guards the map itself; room mutations run under each room's own mutex,
// so no lock is ever held across all rooms.
package inmemory

import (
	"sync"
	"time"

	"github.com/watchalong/server/internal/domain"
	"github.com/watchalong/server/internal/repository/room"
)

type Repo struct {
	rooms map[string]*domain.Room
	mu    sync.RWMutex
}

func NewRepo() *Repo {
	return &Repo{
		rooms: make(map[string]*domain.Room),
	}
}

func (r *Repo) Create(roomId, hostId string) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomId]; ok {
		return nil, room.ErrRoomAlreadyExists
	}

	created := domain.NewRoom(roomId, hostId, time.Now())
	r.rooms[roomId] = created

	return created, nil
}

func (r *Repo) Get(roomId string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found, ok := r.rooms[roomId]
	if !ok {
		return nil, room.ErrRoomNotFound
	}

	return found, nil
}

// DeleteIfEmpty drops the room iff it still has no members. The room is
// marked closed under its own lock first, so a join racing the delete gets
// ErrRoomClosed instead of landing in a dropped room.
func (r *Repo) DeleteIfEmpty(roomId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	found, ok := r.rooms[roomId]
	if !ok {
		return false
	}

	if !found.CloseIfEmpty() {
		return false
	}

	delete(r.rooms, roomId)
	return true
}

func (r *Repo) Stats() (rooms, members int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms = len(r.rooms)
	for _, found := range r.rooms {
		members += found.MemberCount()
	}

	return rooms, members
}
