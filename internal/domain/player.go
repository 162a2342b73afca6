package domain

import "time"

// Player is the authoritative playback state of a room. CurrentTime is valid
// as of UpdatedAt; the position while playing is derived on read, never
// advanced by a timer.
type Player struct {
	VideoUrl    *string
	CurrentTime float64
	IsPlaying   bool
	UpdatedAt   time.Time
}

// UpdateState is the sole mutation of the playback triple.
func (p *Player) UpdateState(currentTime float64, isPlaying bool, now time.Time) {
	p.CurrentTime = currentTime
	p.IsPlaying = isPlaying
	p.UpdatedAt = now
}

// ExtrapolatedTime returns the playback position at now: the last reported
// position plus the wall-clock time elapsed since it was reported, or exactly
// the last position while paused.
func (p Player) ExtrapolatedTime(now time.Time) float64 {
	if !p.IsPlaying {
		return p.CurrentTime
	}

	return p.CurrentTime + now.Sub(p.UpdatedAt).Seconds()
}
