package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/watchalong/server/internal/domain"
	"github.com/watchalong/server/internal/repository/room"
	"github.com/watchalong/server/internal/service"
	"github.com/watchalong/server/pkg/wsconn"
	"github.com/watchalong/server/pkg/wsrouter"
)

// writeToConn enqueues a frame for one member. A connection that cannot keep
// up is dropped so it never delays anyone else.
func (c controller) writeToConn(ctx context.Context, conn *wsconn.Conn, v any) error {
	if err := conn.SendJSON(v); err != nil {
		c.logger.WarnContext(ctx, "dropping connection", "error", err)
		conn.Close()
		return err
	}

	return nil
}

// broadcast delivers a frame to every given connection independently: a
// failed enqueue drops that connection only.
func (c controller) broadcast(ctx context.Context, conns []*wsconn.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	for _, conn := range conns {
		if err := conn.Send(data); err != nil {
			c.logger.WarnContext(ctx, "dropping connection", "error", err)
			conn.Close()
		}
	}

	return nil
}

func (c controller) writeError(ctx context.Context, conn *wsconn.Conn, message string) error {
	return c.writeToConn(ctx, conn, &errorOutput{
		Type:    "error",
		Message: message,
	})
}

// errorMessage maps an operation error to the message sent back to the
// originating connection. Errors never terminate the connection and never
// reach other members.
func (c controller) errorMessage(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomAlreadyExists):
		return "Room already exists"
	case errors.Is(err, room.ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, domain.ErrPermissionDenied):
		return "Only host can control playback"
	case errors.Is(err, domain.ErrMemberNotFound):
		return "Member not found"
	case errors.Is(err, service.ErrNotInRoom):
		return "Not joined to a room"
	case errors.Is(err, service.ErrAlreadyInRoom):
		return "Already in a room"
	case errors.Is(err, wsrouter.ErrUnknownMessageType):
		return "Unknown message type"
	case errors.Is(err, wsrouter.ErrMalformedMessage):
		return "Invalid message format"
	default:
		return "Internal error"
	}
}
