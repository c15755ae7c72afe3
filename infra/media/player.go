package media

import (
	"image"
	"math"
	"sync"
	"time"

	"github.com/chillchill/chilltok/domain"
)

// FramePlayer plays a Clip against a clock, looping at the end. The zero
// value is not usable; construct with NewFramePlayer.
type FramePlayer struct {
	mu sync.Mutex

	now     func() time.Time
	clip    domain.Clip
	playing bool
	muted   bool
	base    float64 // position at startedAt, seconds
	started time.Time
}

// NewFramePlayer creates a paused, empty player. A nil now uses time.Now.
func NewFramePlayer(now func() time.Time) *FramePlayer {
	if now == nil {
		now = time.Now
	}
	return &FramePlayer{now: now}
}

// Load swaps in a clip, keeping the play state and rewinding to 0.
func (p *FramePlayer) Load(clip domain.Clip) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clip = clip
	p.base = 0
	p.started = p.now()
}

// Ready reports whether a clip with at least one frame is loaded.
func (p *FramePlayer) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clip.Frames) > 0
}

func (p *FramePlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return
	}
	p.playing = true
	p.started = p.now()
}

func (p *FramePlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return
	}
	p.base = p.positionLocked()
	p.playing = false
}

func (p *FramePlayer) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.playing
}

// Seek moves the playhead, wrapping into the clip length.
func (p *FramePlayer) Seek(sec float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.wrap(sec)
	p.started = p.now()
}

// CurrentTime is the playhead in seconds, always in [0, Duration).
func (p *FramePlayer) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *FramePlayer) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clip.Duration()
}

func (p *FramePlayer) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

func (p *FramePlayer) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Frame returns the image at the playhead, or nil before a clip is loaded.
func (p *FramePlayer) Frame() image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.clip.Frames)
	if n == 0 {
		return nil
	}
	if n == 1 || p.clip.FPS <= 0 {
		return p.clip.Frames[0]
	}
	idx := int(p.positionLocked()*p.clip.FPS) % n
	return p.clip.Frames[idx]
}

func (p *FramePlayer) positionLocked() float64 {
	pos := p.base
	if p.playing {
		pos += p.now().Sub(p.started).Seconds()
	}
	return p.wrap(pos)
}

func (p *FramePlayer) wrap(sec float64) float64 {
	d := p.clip.Duration()
	if d <= 0 {
		return 0
	}
	pos := math.Mod(sec, d)
	if pos < 0 {
		pos += d
	}
	return pos
}
