package controller

import (
	"context"
	"net/http"

	"github.com/watchalong/server/internal/service"
	"github.com/watchalong/server/pkg/wsconn"
)

func (c controller) serveWs(w http.ResponseWriter, r *http.Request) {
	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	conn := wsconn.New(ws, c.sendQueueSize)
	go conn.WritePump()

	if err := c.wsmux.ServeConn(r.Context(), conn); err != nil {
		c.logger.DebugContext(r.Context(), "connection closed", "reason", err)
	}

	c.disconnect(r.Context(), conn)
}

// disconnect treats a transport close as an implicit leave: the member is
// removed from its room, remaining members learn about it, and host authority
// is handed over when the host was the one who left.
func (c controller) disconnect(ctx context.Context, conn *wsconn.Conn) {
	defer conn.Close()

	disconnectResp, err := c.roomService.Disconnect(ctx, &service.DisconnectParams{Conn: conn})
	if err != nil {
		// connection never joined a room
		return
	}

	if len(disconnectResp.Conns) == 0 {
		return
	}

	c.broadcast(ctx, disconnectResp.Conns, &userLeftOutput{
		Type:      "user_left",
		UserId:    disconnectResp.MemberId,
		UserCount: disconnectResp.MemberCount,
	})

	if disconnectResp.NewHostId != nil {
		c.broadcast(ctx, disconnectResp.Conns, &newHostOutput{
			Type:   "new_host",
			HostId: *disconnectResp.NewHostId,
		})
	}
}
