package domain

import (
	"sort"
	"sync"
	"time"
)

// Room is the session aggregate: membership, host authority and playback
// state of one watch-along session. Every mutation takes the room mutex, so
// exactly one mutation of a given room is in flight at a time while distinct
// rooms proceed independently.
type Room struct {
	id string

	mu      sync.Mutex
	hostId  string
	members map[string]*member
	nextSeq uint64
	player  Player
	closed  bool
}

type member struct {
	id      string
	joinSeq uint64
}

// State is the snapshot handed to a joining member.
type State struct {
	IsHost         bool
	Player         Player
	MemberCount    int
	OtherMemberIds []string
}

type RemoveMemberResult struct {
	Removed            bool
	IsRoomEmpty        bool
	NewHostId          *string
	MemberCount        int
	RemainingMemberIds []string
}

// NewRoom creates the room with the creator already joined, so the room is
// never observable with a host that is not a member.
func NewRoom(id, hostId string, now time.Time) *Room {
	return &Room{
		id:      id,
		hostId:  hostId,
		members: map[string]*member{hostId: {id: hostId, joinSeq: 1}},
		nextSeq: 1,
		player:  Player{UpdatedAt: now},
	}
}

func (r *Room) Id() string {
	return r.id
}

func (r *Room) HostId() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.hostId
}

// AddMember adds the member or, on id collision, keeps the existing entry so
// a re-join preserves the original seniority. Returns the room snapshot the
// joiner must be initialized with.
func (r *Room) AddMember(memberId string) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return State{}, ErrRoomClosed
	}

	// a join can land after the last member left but before the registry
	// closes the room; the joiner seizes host authority, otherwise hostId
	// would point at a departed member forever
	if len(r.members) == 0 {
		r.hostId = memberId
	}

	if _, ok := r.members[memberId]; !ok {
		r.nextSeq++
		r.members[memberId] = &member{id: memberId, joinSeq: r.nextSeq}
	}

	return State{
		IsHost:         memberId == r.hostId,
		Player:         r.player,
		MemberCount:    len(r.members),
		OtherMemberIds: r.memberIdsLocked(memberId),
	}, nil
}

// RemoveMember removes the member and, if it held host authority, hands it to
// the earliest still-joined member. Playback state is left untouched.
func (r *Room) RemoveMember(memberId string) RemoveMemberResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[memberId]; !ok {
		return RemoveMemberResult{MemberCount: len(r.members)}
	}

	delete(r.members, memberId)

	res := RemoveMemberResult{
		Removed:     true,
		MemberCount: len(r.members),
	}

	if len(r.members) == 0 {
		res.IsRoomEmpty = true
		return res
	}

	if memberId == r.hostId {
		newHostId := r.earliestMemberLocked()
		r.hostId = newHostId
		res.NewHostId = &newHostId
	}

	res.RemainingMemberIds = r.memberIdsLocked("")

	return res
}

// SetVideo is host-only. It sets the video and resets playback to a paused
// zero position. Returns the members the video_set event goes to.
func (r *Room) SetVideo(senderId, videoUrl string, now time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkHostLocked(senderId); err != nil {
		return nil, err
	}

	url := videoUrl
	r.player.VideoUrl = &url
	r.player.UpdateState(0, false, now)

	return r.memberIdsLocked(""), nil
}

// Play is host-only.
func (r *Room) Play(senderId string, currentTime float64, now time.Time) (Player, []string, error) {
	return r.updateState(senderId, currentTime, true, now)
}

// Pause is host-only.
func (r *Room) Pause(senderId string, currentTime float64, now time.Time) (Player, []string, error) {
	return r.updateState(senderId, currentTime, false, now)
}

// Seek is host-only and keeps the current play state.
func (r *Room) Seek(senderId string, currentTime float64, now time.Time) (Player, []string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkHostLocked(senderId); err != nil {
		return Player{}, nil, err
	}

	r.player.UpdateState(currentTime, r.player.IsPlaying, now)

	return r.player, r.memberIdsLocked(""), nil
}

func (r *Room) updateState(senderId string, currentTime float64, isPlaying bool, now time.Time) (Player, []string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkHostLocked(senderId); err != nil {
		return Player{}, nil, err
	}

	r.player.UpdateState(currentTime, isPlaying, now)

	return r.player, r.memberIdsLocked(""), nil
}

func (r *Room) PlayerSnapshot() Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.player
}

func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.members)
}

// CloseIfEmpty marks the room closed when no members remain, so a concurrent
// join cannot land in a room the registry is about to drop.
func (r *Room) CloseIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.members) > 0 {
		return false
	}

	r.closed = true
	return true
}

func (r *Room) checkHostLocked(senderId string) error {
	if _, ok := r.members[senderId]; !ok {
		return ErrMemberNotFound
	}
	if senderId != r.hostId {
		return ErrPermissionDenied
	}

	return nil
}

// memberIdsLocked returns member ids in join order, excluding excludeId if
// non-empty.
func (r *Room) memberIdsLocked(excludeId string) []string {
	members := make([]*member, 0, len(r.members))
	for _, m := range r.members {
		if m.id == excludeId {
			continue
		}
		members = append(members, m)
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].joinSeq < members[j].joinSeq
	})

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.id
	}

	return ids
}

func (r *Room) earliestMemberLocked() string {
	var earliest *member
	for _, m := range r.members {
		if earliest == nil || m.joinSeq < earliest.joinSeq {
			earliest = m
		}
	}

	return earliest.id
}
