package syncplayer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestApply_LatencyCompensation(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		update   Update
		wantTime float64
	}{
		{
			name:     "playing update stamped 500ms ago",
			update:   Update{CurrentTime: 10, IsPlaying: true, Timestamp: now.UnixMilli() - 500},
			wantTime: 10.5,
		},
		{
			name:     "paused update ignores latency",
			update:   Update{CurrentTime: 10, IsPlaying: false, Timestamp: now.UnixMilli() - 500},
			wantTime: 10,
		},
		{
			name:     "no timestamp means no compensation",
			update:   Update{CurrentTime: 10, IsPlaying: true},
			wantTime: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(DefaultDebounce)
			state := r.Apply(tt.update, now)

			assert.InDelta(t, tt.wantTime, state.CurrentTime, 0.001)
			assert.Equal(t, tt.update.IsPlaying, state.IsPlaying)
		})
	}
}

func TestApply_VideoUrl(t *testing.T) {
	r := New(DefaultDebounce)
	now := time.Now()

	state := r.Apply(Update{VideoUrl: strPtr("https://cdn.example/v1.m3u8")}, now)
	assert.Equal(t, "https://cdn.example/v1.m3u8", *state.VideoUrl)

	// later updates without a url keep the current video
	state = r.Apply(Update{CurrentTime: 5, IsPlaying: true}, now)
	assert.Equal(t, "https://cdn.example/v1.m3u8", *state.VideoUrl)
	assert.Equal(t, float64(5), state.CurrentTime)
}

func TestShouldEmit_Debounce(t *testing.T) {
	r := New(DefaultDebounce)
	now := time.Now()

	assert.True(t, r.ShouldEmit(now), "nothing applied yet")

	r.Apply(Update{CurrentTime: 3, IsPlaying: true}, now)

	assert.False(t, r.ShouldEmit(now))
	assert.False(t, r.ShouldEmit(now.Add(999*time.Millisecond)))
	assert.True(t, r.ShouldEmit(now.Add(time.Second)))
}
