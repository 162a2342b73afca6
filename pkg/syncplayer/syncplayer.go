// Package syncplayer is the client half of the playback sync protocol. Every
// participant, the host's own UI included, runs a Reconciler over the
// server-driven updates (play, pause, seek, video_set, sync) to keep its local
// player in lockstep with the room.
package syncplayer

import "time"

// DefaultDebounce is how long locally generated playback events are suppressed
// after a server update has been applied, so the applied update is not echoed
// back as a new outbound action.
const DefaultDebounce = time.Second

type State struct {
	VideoUrl    *string
	CurrentTime float64
	IsPlaying   bool
}

// Update carries the playback fields of a server frame. Timestamp is the
// server wall clock in unix milliseconds; zero means the frame carried none.
// VideoUrl is non-nil only for video_set.
type Update struct {
	VideoUrl    *string
	CurrentTime float64
	IsPlaying   bool
	Timestamp   int64
}

type Reconciler struct {
	state         State
	suppressUntil time.Time
	debounce      time.Duration
}

func New(debounce time.Duration) *Reconciler {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Reconciler{debounce: debounce}
}

// Apply folds a server update into the local state. When the update carries a
// timestamp and the room is playing, the time elapsed since the server stamped
// it is added to the received position to compensate for network latency.
func (r *Reconciler) Apply(u Update, now time.Time) State {
	currentTime := u.CurrentTime
	if u.Timestamp != 0 && u.IsPlaying {
		latency := float64(now.UnixMilli()-u.Timestamp) / 1000
		currentTime += latency
	}

	if u.VideoUrl != nil {
		r.state.VideoUrl = u.VideoUrl
	}
	r.state.CurrentTime = currentTime
	r.state.IsPlaying = u.IsPlaying

	r.suppressUntil = now.Add(r.debounce)

	return r.state
}

// ShouldEmit reports whether a locally generated playback event may be sent.
func (r *Reconciler) ShouldEmit(now time.Time) bool {
	return !now.Before(r.suppressUntil)
}

func (r *Reconciler) State() State {
	return r.state
}
