package service

import (
	"errors"
	"log/slog"

	"github.com/watchalong/server/internal/domain"
	"github.com/watchalong/server/internal/repository/connection"
	"github.com/watchalong/server/pkg/wsconn"
)

var (
	ErrNotInRoom     = errors.New("not joined to a room")
	ErrAlreadyInRoom = errors.New("already in a room")
)

type iRoomRepo interface {
	Create(roomId, hostId string) (*domain.Room, error)
	Get(roomId string) (*domain.Room, error)
	DeleteIfEmpty(roomId string) bool
	Stats() (rooms, members int)
}

type iConnRepo interface {
	Add(conn *wsconn.Conn, roomId, memberId string) (*wsconn.Conn, error)
	RemoveByConn(conn *wsconn.Conn) (connection.Binding, error)
	GetBinding(conn *wsconn.Conn) (connection.Binding, error)
	GetConn(roomId, memberId string) (*wsconn.Conn, error)
}

type service struct {
	roomRepo iRoomRepo
	connRepo iConnRepo
	logger   *slog.Logger
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, logger *slog.Logger) *service {
	return &service{
		roomRepo: roomRepo,
		connRepo: connRepo,
		logger:   logger,
	}
}

func (s service) Stats() (rooms, members int) {
	return s.roomRepo.Stats()
}
