package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/watchalong/server/internal/domain"
	"github.com/watchalong/server/internal/repository/room"
	"github.com/watchalong/server/pkg/wsconn"
)

type CreateRoomParams struct {
	Conn   *wsconn.Conn
	RoomId string
	UserId string
}

type CreateRoomResponse struct {
	RoomId string
	IsHost bool
}

func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (CreateRoomResponse, error) {
	if _, err := s.connRepo.GetBinding(params.Conn); err == nil {
		return CreateRoomResponse{}, ErrAlreadyInRoom
	}

	// the room is registered with the creator already joined, so it is never
	// visible to a concurrent join while empty
	if _, err := s.roomRepo.Create(params.RoomId, params.UserId); err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to create room: %w", err)
	}

	if _, err := s.connRepo.Add(params.Conn, params.RoomId, params.UserId); err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to bind connection: %w", err)
	}

	s.logger.InfoContext(ctx, "room created", "roomId", params.RoomId, "hostId", params.UserId)

	return CreateRoomResponse{
		RoomId: params.RoomId,
		IsHost: true,
	}, nil
}

type JoinRoomParams struct {
	Conn   *wsconn.Conn
	RoomId string
	UserId string
}

type JoinRoomResponse struct {
	RoomId      string
	IsHost      bool
	VideoUrl    *string
	CurrentTime float64
	IsPlaying   bool
	MemberCount int
	OtherConns  []*wsconn.Conn
}

// JoinRoom adds the member and binds its connection. Re-joining with the same
// userId is idempotent with respect to membership: the member entry is kept
// and the stale connection, if any, is closed.
func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	if _, err := s.connRepo.GetBinding(params.Conn); err == nil {
		return JoinRoomResponse{}, ErrAlreadyInRoom
	}

	found, err := s.roomRepo.Get(params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get room: %w", err)
	}

	state, err := found.AddMember(params.UserId)
	if err != nil {
		if errors.Is(err, domain.ErrRoomClosed) {
			return JoinRoomResponse{}, room.ErrRoomNotFound
		}
		return JoinRoomResponse{}, fmt.Errorf("failed to add member: %w", err)
	}

	replaced, err := s.connRepo.Add(params.Conn, params.RoomId, params.UserId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to bind connection: %w", err)
	}
	if replaced != nil {
		replaced.Close()
	}

	s.logger.InfoContext(ctx, "member joined", "roomId", params.RoomId, "userId", params.UserId)

	return JoinRoomResponse{
		RoomId:      params.RoomId,
		IsHost:      state.IsHost,
		VideoUrl:    state.Player.VideoUrl,
		CurrentTime: state.Player.ExtrapolatedTime(time.Now()),
		IsPlaying:   state.Player.IsPlaying,
		MemberCount: state.MemberCount,
		OtherConns:  s.getConnsFromMemberIds(params.RoomId, state.OtherMemberIds),
	}, nil
}

type DisconnectParams struct {
	Conn *wsconn.Conn
}

type DisconnectResponse struct {
	RoomId        string
	MemberId      string
	IsRoomDeleted bool
	NewHostId     *string
	MemberCount   int
	Conns         []*wsconn.Conn
}

// Disconnect releases the connection binding and removes the member from its
// room. Returns connection.ErrNotFound when the connection never joined one.
func (s service) Disconnect(ctx context.Context, params *DisconnectParams) (DisconnectResponse, error) {
	binding, err := s.connRepo.RemoveByConn(params.Conn)
	if err != nil {
		return DisconnectResponse{}, err
	}

	resp := DisconnectResponse{
		RoomId:   binding.RoomId,
		MemberId: binding.MemberId,
	}

	found, err := s.roomRepo.Get(binding.RoomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return resp, nil
		}
		return DisconnectResponse{}, fmt.Errorf("failed to get room: %w", err)
	}

	res := found.RemoveMember(binding.MemberId)
	if !res.Removed {
		return resp, nil
	}

	if res.IsRoomEmpty {
		if s.roomRepo.DeleteIfEmpty(binding.RoomId) {
			resp.IsRoomDeleted = true
			s.logger.InfoContext(ctx, "room deleted", "roomId", binding.RoomId)
		}
		return resp, nil
	}

	resp.NewHostId = res.NewHostId
	resp.MemberCount = res.MemberCount
	resp.Conns = s.getConnsFromMemberIds(binding.RoomId, res.RemainingMemberIds)

	s.logger.InfoContext(ctx, "member left",
		"roomId", binding.RoomId,
		"userId", binding.MemberId,
		"memberCount", res.MemberCount,
	)

	return resp, nil
}
