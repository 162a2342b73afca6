package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchalong/server/internal/domain"
	"github.com/watchalong/server/internal/repository/connection"
	conninmemory "github.com/watchalong/server/internal/repository/connection/inmemory"
	"github.com/watchalong/server/internal/repository/room"
	roominmemory "github.com/watchalong/server/internal/repository/room/inmemory"
	"github.com/watchalong/server/pkg/wsconn"
)

func newTestService() (*service, *roominmemory.Repo) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	roomRepo := roominmemory.NewRepo()
	connRepo := conninmemory.NewRepo()

	return NewService(roomRepo, connRepo, logger), roomRepo
}

func newTestConn() *wsconn.Conn {
	return wsconn.New(&websocket.Conn{}, 8)
}

func TestWatchAlongFlow(t *testing.T) {
	svc, roomRepo := newTestService()
	ctx := context.Background()

	// host creates the room
	hostConn := newTestConn()
	createResp, err := svc.CreateRoom(ctx, &CreateRoomParams{Conn: hostConn, RoomId: "r1", UserId: "x"})
	require.NoError(t, err)
	assert.Equal(t, "r1", createResp.RoomId)
	assert.True(t, createResp.IsHost)

	created, err := roomRepo.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, 1, created.MemberCount(), "creator is a member the moment the room is registered")
	t.Log("room created")

	// second create with the same id is rejected
	strayConn := newTestConn()
	_, err = svc.CreateRoom(ctx, &CreateRoomParams{Conn: strayConn, RoomId: "r1", UserId: "z"})
	require.ErrorIs(t, err, room.ErrRoomAlreadyExists)

	// guest joins
	guestConn := newTestConn()
	joinResp, err := svc.JoinRoom(ctx, &JoinRoomParams{Conn: guestConn, RoomId: "r1", UserId: "y"})
	require.NoError(t, err)
	assert.False(t, joinResp.IsHost)
	assert.Nil(t, joinResp.VideoUrl)
	assert.Equal(t, float64(0), joinResp.CurrentTime)
	assert.False(t, joinResp.IsPlaying)
	assert.Equal(t, 2, joinResp.MemberCount)
	assert.Len(t, joinResp.OtherConns, 1, "only the host gets the user_joined event")
	t.Log("guest joined")

	// guest has no playback authority
	_, err = svc.Play(ctx, &UpdatePlayerStateParams{Conn: guestConn, CurrentTime: 10})
	require.ErrorIs(t, err, domain.ErrPermissionDenied)

	// host sets the video and starts playback
	setVideoResp, err := svc.SetVideo(ctx, &SetVideoParams{Conn: hostConn, VideoUrl: "https://cdn.example/v1/master.m3u8"})
	require.NoError(t, err)
	assert.Len(t, setVideoResp.Conns, 2, "video_set goes to every member")

	playResp, err := svc.Play(ctx, &UpdatePlayerStateParams{Conn: hostConn, CurrentTime: 10})
	require.NoError(t, err)
	assert.Equal(t, float64(10), playResp.CurrentTime)
	assert.NotZero(t, playResp.Timestamp)
	assert.Len(t, playResp.Conns, 2)
	t.Log("playback started")

	// guest resync gets an extrapolated position
	time.Sleep(50 * time.Millisecond)
	resyncResp, err := svc.Resync(ctx, &ResyncParams{Conn: guestConn})
	require.NoError(t, err)
	assert.True(t, resyncResp.IsPlaying)
	assert.Greater(t, resyncResp.CurrentTime, float64(10))
	assert.Less(t, resyncResp.CurrentTime, float64(11))

	// host leaves, guest inherits authority
	disconnectResp, err := svc.Disconnect(ctx, &DisconnectParams{Conn: hostConn})
	require.NoError(t, err)
	assert.False(t, disconnectResp.IsRoomDeleted)
	require.NotNil(t, disconnectResp.NewHostId)
	assert.Equal(t, "y", *disconnectResp.NewHostId)
	assert.Equal(t, 1, disconnectResp.MemberCount)
	t.Log("host failover done")

	// new host can mutate playback now
	_, err = svc.Pause(ctx, &UpdatePlayerStateParams{Conn: guestConn, CurrentTime: 12})
	require.NoError(t, err)

	// last member leaves, room is gone
	disconnectResp, err = svc.Disconnect(ctx, &DisconnectParams{Conn: guestConn})
	require.NoError(t, err)
	assert.True(t, disconnectResp.IsRoomDeleted)

	_, err = roomRepo.Get("r1")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestJoinRoom_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.JoinRoom(context.Background(), &JoinRoomParams{Conn: newTestConn(), RoomId: "missing", UserId: "y"})
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestCreateRoom_ConnAlreadyBound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	conn := newTestConn()
	_, err := svc.CreateRoom(ctx, &CreateRoomParams{Conn: conn, RoomId: "r1", UserId: "x"})
	require.NoError(t, err)

	_, err = svc.CreateRoom(ctx, &CreateRoomParams{Conn: conn, RoomId: "r2", UserId: "x"})
	assert.ErrorIs(t, err, ErrAlreadyInRoom)

	_, err = svc.JoinRoom(ctx, &JoinRoomParams{Conn: conn, RoomId: "r1", UserId: "x"})
	assert.ErrorIs(t, err, ErrAlreadyInRoom)
}

func TestPlay_NotInRoom(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Play(context.Background(), &UpdatePlayerStateParams{Conn: newTestConn(), CurrentTime: 1})
	assert.ErrorIs(t, err, ErrNotInRoom)
}

func TestDisconnect_NeverJoined(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Disconnect(context.Background(), &DisconnectParams{Conn: newTestConn()})
	assert.ErrorIs(t, err, connection.ErrNotFound)
}
