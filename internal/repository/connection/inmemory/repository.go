package inmemory

import (
	"sync"

	"github.com/watchalong/server/internal/repository/connection"
	"github.com/watchalong/server/pkg/wsconn"
)

type repo struct {
	connList map[*wsconn.Conn]connection.Binding
	idList   map[connection.Binding]*wsconn.Conn
	mu       sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		connList: make(map[*wsconn.Conn]connection.Binding),
		idList:   make(map[connection.Binding]*wsconn.Conn),
	}
}

// Add binds the connection to a room membership. A connection can hold only
// one binding. When another connection already claims the same membership, it
// is unbound and returned so the caller can close it (last write wins).
func (r *repo) Add(conn *wsconn.Conn, roomId, memberId string) (*wsconn.Conn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.connList[conn]; ok {
		return nil, connection.ErrAlreadyExists
	}

	binding := connection.Binding{RoomId: roomId, MemberId: memberId}

	var replaced *wsconn.Conn
	if old, ok := r.idList[binding]; ok {
		delete(r.connList, old)
		replaced = old
	}

	r.connList[conn] = binding
	r.idList[binding] = conn

	return replaced, nil
}

func (r *repo) RemoveByConn(conn *wsconn.Conn) (connection.Binding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	binding, ok := r.connList[conn]
	if !ok {
		return connection.Binding{}, connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, binding)

	return binding, nil
}

func (r *repo) GetBinding(conn *wsconn.Conn) (connection.Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	binding, ok := r.connList[conn]
	if !ok {
		return connection.Binding{}, connection.ErrNotFound
	}

	return binding, nil
}

func (r *repo) GetConn(roomId, memberId string) (*wsconn.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[connection.Binding{RoomId: roomId, MemberId: memberId}]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}
