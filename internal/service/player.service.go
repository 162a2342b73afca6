package service

import (
	"context"
	"fmt"
	"time"

	"github.com/watchalong/server/pkg/wsconn"
)

type SetVideoParams struct {
	Conn     *wsconn.Conn
	VideoUrl string
}

type SetVideoResponse struct {
	VideoUrl string
	Conns    []*wsconn.Conn
}

// SetVideo is host-only. Playback is reset to a paused zero position and the
// video_set event goes to every member, the host included.
func (s service) SetVideo(ctx context.Context, params *SetVideoParams) (SetVideoResponse, error) {
	binding, err := s.connRepo.GetBinding(params.Conn)
	if err != nil {
		return SetVideoResponse{}, ErrNotInRoom
	}

	found, err := s.roomRepo.Get(binding.RoomId)
	if err != nil {
		return SetVideoResponse{}, fmt.Errorf("failed to get room: %w", err)
	}

	memberIds, err := found.SetVideo(binding.MemberId, params.VideoUrl, time.Now())
	if err != nil {
		return SetVideoResponse{}, err
	}

	s.logger.InfoContext(ctx, "video set", "roomId", binding.RoomId, "videoUrl", params.VideoUrl)

	return SetVideoResponse{
		VideoUrl: params.VideoUrl,
		Conns:    s.getConnsFromMemberIds(binding.RoomId, memberIds),
	}, nil
}

type UpdatePlayerStateParams struct {
	Conn        *wsconn.Conn
	CurrentTime float64
}

type PlayResponse struct {
	CurrentTime float64
	Timestamp   int64
	Conns       []*wsconn.Conn
}

func (s service) Play(ctx context.Context, params *UpdatePlayerStateParams) (PlayResponse, error) {
	binding, err := s.connRepo.GetBinding(params.Conn)
	if err != nil {
		return PlayResponse{}, ErrNotInRoom
	}

	found, err := s.roomRepo.Get(binding.RoomId)
	if err != nil {
		return PlayResponse{}, fmt.Errorf("failed to get room: %w", err)
	}

	player, memberIds, err := found.Play(binding.MemberId, params.CurrentTime, time.Now())
	if err != nil {
		return PlayResponse{}, err
	}

	return PlayResponse{
		CurrentTime: player.CurrentTime,
		Timestamp:   player.UpdatedAt.UnixMilli(),
		Conns:       s.getConnsFromMemberIds(binding.RoomId, memberIds),
	}, nil
}

type PauseResponse struct {
	CurrentTime float64
	Conns       []*wsconn.Conn
}

func (s service) Pause(ctx context.Context, params *UpdatePlayerStateParams) (PauseResponse, error) {
	binding, err := s.connRepo.GetBinding(params.Conn)
	if err != nil {
		return PauseResponse{}, ErrNotInRoom
	}

	found, err := s.roomRepo.Get(binding.RoomId)
	if err != nil {
		return PauseResponse{}, fmt.Errorf("failed to get room: %w", err)
	}

	player, memberIds, err := found.Pause(binding.MemberId, params.CurrentTime, time.Now())
	if err != nil {
		return PauseResponse{}, err
	}

	return PauseResponse{
		CurrentTime: player.CurrentTime,
		Conns:       s.getConnsFromMemberIds(binding.RoomId, memberIds),
	}, nil
}

type SeekResponse struct {
	CurrentTime float64
	IsPlaying   bool
	Timestamp   int64
	Conns       []*wsconn.Conn
}

func (s service) Seek(ctx context.Context, params *UpdatePlayerStateParams) (SeekResponse, error) {
	binding, err := s.connRepo.GetBinding(params.Conn)
	if err != nil {
		return SeekResponse{}, ErrNotInRoom
	}

	found, err := s.roomRepo.Get(binding.RoomId)
	if err != nil {
		return SeekResponse{}, fmt.Errorf("failed to get room: %w", err)
	}

	player, memberIds, err := found.Seek(binding.MemberId, params.CurrentTime, time.Now())
	if err != nil {
		return SeekResponse{}, err
	}

	return SeekResponse{
		CurrentTime: player.CurrentTime,
		IsPlaying:   player.IsPlaying,
		Timestamp:   player.UpdatedAt.UnixMilli(),
		Conns:       s.getConnsFromMemberIds(binding.RoomId, memberIds),
	}, nil
}

type ResyncParams struct {
	Conn *wsconn.Conn
}

type ResyncResponse struct {
	CurrentTime float64
	IsPlaying   bool
	Timestamp   int64
}

// Resync is open to any member. The reply is private: the caller reconciles
// its local player against the extrapolated authoritative position.
func (s service) Resync(ctx context.Context, params *ResyncParams) (ResyncResponse, error) {
	binding, err := s.connRepo.GetBinding(params.Conn)
	if err != nil {
		return ResyncResponse{}, ErrNotInRoom
	}

	found, err := s.roomRepo.Get(binding.RoomId)
	if err != nil {
		return ResyncResponse{}, fmt.Errorf("failed to get room: %w", err)
	}

	player := found.PlayerSnapshot()
	now := time.Now()

	return ResyncResponse{
		CurrentTime: player.ExtrapolatedTime(now),
		IsPlaying:   player.IsPlaying,
		Timestamp:   now.UnixMilli(),
	}, nil
}
