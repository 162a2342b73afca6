package controller

import (
	"context"
	"fmt"

	"github.com/watchalong/server/internal/service"
	"github.com/watchalong/server/pkg/wsconn"
)

type errorOutput struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type roomCreatedOutput struct {
	Type   string `json:"type"`
	RoomId string `json:"roomId"`
	IsHost bool   `json:"isHost"`
}

type roomJoinedOutput struct {
	Type        string  `json:"type"`
	RoomId      string  `json:"roomId"`
	IsHost      bool    `json:"isHost"`
	VideoUrl    *string `json:"videoUrl"`
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
	UserCount   int     `json:"userCount"`
}

type userJoinedOutput struct {
	Type      string `json:"type"`
	UserId    string `json:"userId"`
	UserCount int    `json:"userCount"`
}

type userLeftOutput struct {
	Type      string `json:"type"`
	UserId    string `json:"userId"`
	UserCount int    `json:"userCount"`
}

type videoSetOutput struct {
	Type        string  `json:"type"`
	VideoUrl    string  `json:"videoUrl"`
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
}

type playOutput struct {
	Type        string  `json:"type"`
	CurrentTime float64 `json:"currentTime"`
	Timestamp   int64   `json:"timestamp"`
}

type pauseOutput struct {
	Type        string  `json:"type"`
	CurrentTime float64 `json:"currentTime"`
}

type seekOutput struct {
	Type        string  `json:"type"`
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
	Timestamp   int64   `json:"timestamp"`
}

type syncOutput struct {
	Type        string  `json:"type"`
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
	Timestamp   int64   `json:"timestamp"`
}

type newHostOutput struct {
	Type   string `json:"type"`
	HostId string `json:"hostId"`
}

type heartbeatOutput struct {
	Type string `json:"type"`
}

type EmptyInput struct{}

type CreateRoomInput struct {
	RoomId string `json:"roomId" validate:"required"`
	UserId string `json:"userId" validate:"required"`
}

func (c controller) handleCreateRoom(ctx context.Context, conn *wsconn.Conn, input CreateRoomInput) error {
	if _, ok := c.validate.Validate(input); !ok {
		return c.writeError(ctx, conn, "Room ID and User ID are required")
	}

	createRoomResp, err := c.roomService.CreateRoom(ctx, &service.CreateRoomParams{
		Conn:   conn,
		RoomId: input.RoomId,
		UserId: input.UserId,
	})
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	return c.writeToConn(ctx, conn, &roomCreatedOutput{
		Type:   "room_created",
		RoomId: createRoomResp.RoomId,
		IsHost: createRoomResp.IsHost,
	})
}

type JoinRoomInput struct {
	RoomId string `json:"roomId" validate:"required"`
	UserId string `json:"userId" validate:"required"`
}

func (c controller) handleJoinRoom(ctx context.Context, conn *wsconn.Conn, input JoinRoomInput) error {
	if _, ok := c.validate.Validate(input); !ok {
		return c.writeError(ctx, conn, "Room ID and User ID are required")
	}

	joinRoomResp, err := c.roomService.JoinRoom(ctx, &service.JoinRoomParams{
		Conn:   conn,
		RoomId: input.RoomId,
		UserId: input.UserId,
	})
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	if err := c.writeToConn(ctx, conn, &roomJoinedOutput{
		Type:        "room_joined",
		RoomId:      joinRoomResp.RoomId,
		IsHost:      joinRoomResp.IsHost,
		VideoUrl:    joinRoomResp.VideoUrl,
		CurrentTime: joinRoomResp.CurrentTime,
		IsPlaying:   joinRoomResp.IsPlaying,
		UserCount:   joinRoomResp.MemberCount,
	}); err != nil {
		return err
	}

	return c.broadcast(ctx, joinRoomResp.OtherConns, &userJoinedOutput{
		Type:      "user_joined",
		UserId:    input.UserId,
		UserCount: joinRoomResp.MemberCount,
	})
}

type SetVideoInput struct {
	VideoUrl string `json:"videoUrl" validate:"required"`
}

func (c controller) handleSetVideo(ctx context.Context, conn *wsconn.Conn, input SetVideoInput) error {
	if _, ok := c.validate.Validate(input); !ok {
		return c.writeError(ctx, conn, "Video URL is required")
	}

	setVideoResp, err := c.roomService.SetVideo(ctx, &service.SetVideoParams{
		Conn:     conn,
		VideoUrl: input.VideoUrl,
	})
	if err != nil {
		return fmt.Errorf("failed to set video: %w", err)
	}

	return c.broadcast(ctx, setVideoResp.Conns, &videoSetOutput{
		Type:        "video_set",
		VideoUrl:    setVideoResp.VideoUrl,
		CurrentTime: 0,
		IsPlaying:   false,
	})
}

type PlayerStateInput struct {
	CurrentTime float64 `json:"currentTime"`
}

func (c controller) handlePlay(ctx context.Context, conn *wsconn.Conn, input PlayerStateInput) error {
	playResp, err := c.roomService.Play(ctx, &service.UpdatePlayerStateParams{
		Conn:        conn,
		CurrentTime: input.CurrentTime,
	})
	if err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}

	return c.broadcast(ctx, playResp.Conns, &playOutput{
		Type:        "play",
		CurrentTime: playResp.CurrentTime,
		Timestamp:   playResp.Timestamp,
	})
}

func (c controller) handlePause(ctx context.Context, conn *wsconn.Conn, input PlayerStateInput) error {
	pauseResp, err := c.roomService.Pause(ctx, &service.UpdatePlayerStateParams{
		Conn:        conn,
		CurrentTime: input.CurrentTime,
	})
	if err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}

	return c.broadcast(ctx, pauseResp.Conns, &pauseOutput{
		Type:        "pause",
		CurrentTime: pauseResp.CurrentTime,
	})
}

func (c controller) handleSeek(ctx context.Context, conn *wsconn.Conn, input PlayerStateInput) error {
	seekResp, err := c.roomService.Seek(ctx, &service.UpdatePlayerStateParams{
		Conn:        conn,
		CurrentTime: input.CurrentTime,
	})
	if err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	return c.broadcast(ctx, seekResp.Conns, &seekOutput{
		Type:        "seek",
		CurrentTime: seekResp.CurrentTime,
		IsPlaying:   seekResp.IsPlaying,
		Timestamp:   seekResp.Timestamp,
	})
}

func (c controller) handleResyncRequest(ctx context.Context, conn *wsconn.Conn, _ EmptyInput) error {
	resyncResp, err := c.roomService.Resync(ctx, &service.ResyncParams{Conn: conn})
	if err != nil {
		return fmt.Errorf("failed to resync: %w", err)
	}

	// private reply, never broadcast
	return c.writeToConn(ctx, conn, &syncOutput{
		Type:        "sync",
		CurrentTime: resyncResp.CurrentTime,
		IsPlaying:   resyncResp.IsPlaying,
		Timestamp:   resyncResp.Timestamp,
	})
}

func (c controller) handleHeartbeat(ctx context.Context, conn *wsconn.Conn, _ EmptyInput) error {
	return c.writeToConn(ctx, conn, &heartbeatOutput{Type: "heartbeat"})
}
