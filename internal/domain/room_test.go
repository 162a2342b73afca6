package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoomWithMembers(t *testing.T, memberIds ...string) *Room {
	t.Helper()

	r := NewRoom("r1", memberIds[0], time.Now())
	for _, id := range memberIds {
		_, err := r.AddMember(id)
		require.NoError(t, err)
	}

	return r
}

func TestRoom_NewRoomSeedsCreator(t *testing.T) {
	r := NewRoom("r1", "host", time.Now())

	assert.Equal(t, 1, r.MemberCount(), "creator must be a member from the start")
	assert.Equal(t, "host", r.HostId())

	state, err := r.AddMember("guest")
	require.NoError(t, err)
	assert.Equal(t, []string{"host"}, state.OtherMemberIds, "creator holds the earliest join seniority")
}

func TestRoom_AddMember(t *testing.T) {
	r := NewRoom("r1", "host", time.Now())

	state, err := r.AddMember("host")
	require.NoError(t, err)
	assert.True(t, state.IsHost)
	assert.Equal(t, 1, state.MemberCount)
	assert.Empty(t, state.OtherMemberIds)
	assert.Nil(t, state.Player.VideoUrl)
	assert.False(t, state.Player.IsPlaying)

	state, err = r.AddMember("guest")
	require.NoError(t, err)
	assert.False(t, state.IsHost)
	assert.Equal(t, 2, state.MemberCount)
	assert.Equal(t, []string{"host"}, state.OtherMemberIds)

	// re-join is idempotent with respect to membership
	state, err = r.AddMember("guest")
	require.NoError(t, err)
	assert.Equal(t, 2, state.MemberCount)
}

func TestRoom_HostFailover(t *testing.T) {
	r := newRoomWithMembers(t, "h", "a", "b")

	_, err := r.SetVideo("h", "video-1", time.Now())
	require.NoError(t, err)
	_, _, err = r.Play("h", 33, time.Now())
	require.NoError(t, err)
	playerBefore := r.PlayerSnapshot()

	res := r.RemoveMember("h")
	require.True(t, res.Removed)
	assert.False(t, res.IsRoomEmpty)
	require.NotNil(t, res.NewHostId)
	assert.Equal(t, "a", *res.NewHostId, "host authority must go to the earliest still-joined member")
	assert.Equal(t, 2, res.MemberCount)
	assert.Equal(t, []string{"a", "b"}, res.RemainingMemberIds)
	assert.Equal(t, "a", r.HostId())

	// playback state survives the handover untouched
	assert.Equal(t, playerBefore, r.PlayerSnapshot())
}

func TestRoom_HostFailoverSkipsDeparted(t *testing.T) {
	r := newRoomWithMembers(t, "h", "a", "b")

	r.RemoveMember("a")
	res := r.RemoveMember("h")

	require.NotNil(t, res.NewHostId)
	assert.Equal(t, "b", *res.NewHostId)
}

func TestRoom_RemoveMember(t *testing.T) {
	r := newRoomWithMembers(t, "h", "a")

	res := r.RemoveMember("a")
	assert.True(t, res.Removed)
	assert.False(t, res.IsRoomEmpty)
	assert.Nil(t, res.NewHostId, "non-host departure must not reassign authority")
	assert.Equal(t, []string{"h"}, res.RemainingMemberIds)

	res = r.RemoveMember("unknown")
	assert.False(t, res.Removed)

	res = r.RemoveMember("h")
	assert.True(t, res.Removed)
	assert.True(t, res.IsRoomEmpty)
	assert.Equal(t, 0, res.MemberCount)
}

func TestRoom_NonHostMutationsRejected(t *testing.T) {
	r := newRoomWithMembers(t, "h", "guest")

	_, err := r.SetVideo("h", "video-1", time.Now())
	require.NoError(t, err)
	before := r.PlayerSnapshot()

	_, err = r.SetVideo("guest", "video-2", time.Now())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = r.Play("guest", 10, time.Now())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = r.Pause("guest", 10, time.Now())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = r.Seek("guest", 10, time.Now())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = r.Play("stranger", 10, time.Now())
	assert.ErrorIs(t, err, ErrMemberNotFound)

	assert.Equal(t, before, r.PlayerSnapshot(), "rejected mutations must leave state unchanged")
}

func TestRoom_SeekKeepsPlayState(t *testing.T) {
	r := newRoomWithMembers(t, "h")

	player, _, err := r.Seek("h", 100, time.Now())
	require.NoError(t, err)
	assert.False(t, player.IsPlaying)
	assert.Equal(t, float64(100), player.CurrentTime)

	_, _, err = r.Play("h", 100, time.Now())
	require.NoError(t, err)

	player, _, err = r.Seek("h", 200, time.Now())
	require.NoError(t, err)
	assert.True(t, player.IsPlaying)
	assert.Equal(t, float64(200), player.CurrentTime)
}

func TestRoom_SetVideoResetsPlayback(t *testing.T) {
	r := newRoomWithMembers(t, "h", "a")

	_, _, err := r.Play("h", 55, time.Now())
	require.NoError(t, err)

	memberIds, err := r.SetVideo("h", "video-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"h", "a"}, memberIds)

	player := r.PlayerSnapshot()
	require.NotNil(t, player.VideoUrl)
	assert.Equal(t, "video-1", *player.VideoUrl)
	assert.Equal(t, float64(0), player.CurrentTime)
	assert.False(t, player.IsPlaying)
}

func TestRoom_JoinEmptiedRoomSeizesHost(t *testing.T) {
	r := newRoomWithMembers(t, "h")
	r.RemoveMember("h")

	// the room is empty but a join lands before the registry closes it
	state, err := r.AddMember("late")
	require.NoError(t, err)
	assert.True(t, state.IsHost, "joiner of an emptied room must take host authority")
	assert.Equal(t, "late", r.HostId())

	_, _, err = r.Play("late", 5, time.Now())
	require.NoError(t, err)
}

func TestRoom_CloseIfEmpty(t *testing.T) {
	r := newRoomWithMembers(t, "h")

	assert.False(t, r.CloseIfEmpty(), "room with members must not close")

	r.RemoveMember("h")
	assert.True(t, r.CloseIfEmpty())

	_, err := r.AddMember("late")
	assert.ErrorIs(t, err, ErrRoomClosed)
}
