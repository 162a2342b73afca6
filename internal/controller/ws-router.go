package controller

import (
	"context"

	"github.com/watchalong/server/pkg/wsconn"
	"github.com/watchalong/server/pkg/wsrouter"
)

func (c controller) initWSMux() *wsrouter.WSRouter {
	mux := wsrouter.NewWSRouter()

	mux.Use(c.wsRequestIdWSMw())
	mux.Use(c.loggerWSMw())

	mux.SetErrorHandler(func(ctx context.Context, conn *wsconn.Conn, err error) {
		c.logger.DebugContext(ctx, "failed to handle message", "error", err)
		c.writeError(ctx, conn, c.errorMessage(err))
	})

	// room
	wsrouter.Handle(mux, "create_room", c.handleCreateRoom)
	wsrouter.Handle(mux, "join_room", c.handleJoinRoom)

	// playback, host-only
	wsrouter.Handle(mux, "set_video", c.handleSetVideo)
	wsrouter.Handle(mux, "play", c.handlePlay)
	wsrouter.Handle(mux, "pause", c.handlePause)
	wsrouter.Handle(mux, "seek", c.handleSeek)

	// any member
	wsrouter.Handle(mux, "resync_request", c.handleResyncRequest)
	wsrouter.Handle(mux, "heartbeat", c.handleHeartbeat)

	return mux
}
