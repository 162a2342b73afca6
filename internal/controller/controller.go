package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/watchalong/server/internal/service"
	"github.com/watchalong/server/pkg/validator"
	"github.com/watchalong/server/pkg/wsrouter"
)

type iRoomService interface {
	CreateRoom(context.Context, *service.CreateRoomParams) (service.CreateRoomResponse, error)
	JoinRoom(context.Context, *service.JoinRoomParams) (service.JoinRoomResponse, error)
	Disconnect(context.Context, *service.DisconnectParams) (service.DisconnectResponse, error)
	SetVideo(context.Context, *service.SetVideoParams) (service.SetVideoResponse, error)
	Play(context.Context, *service.UpdatePlayerStateParams) (service.PlayResponse, error)
	Pause(context.Context, *service.UpdatePlayerStateParams) (service.PauseResponse, error)
	Seek(context.Context, *service.UpdatePlayerStateParams) (service.SeekResponse, error)
	Resync(context.Context, *service.ResyncParams) (service.ResyncResponse, error)
	Stats() (rooms, members int)
}

type Config struct {
	SendQueueSize int
}

type controller struct {
	roomService   iRoomService
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	logger        *slog.Logger
	wsmux         *wsrouter.WSRouter
	sendQueueSize int
}

func NewController(roomService iRoomService, logger *slog.Logger, cfg *Config) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService:   roomService,
		validate:      validator.NewValidator(),
		logger:        logger,
		sendQueueSize: cfg.SendQueueSize,
	}
	c.wsmux = c.initWSMux()

	return c
}
