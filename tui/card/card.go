// Package card renders one feed item: a foreground video, a blurred copy of
// it as backdrop, the caption block and the action rail.
package card

import (
	"math"
	"time"

	"github.com/chillchill/chilltok/domain"
	"github.com/chillchill/chilltok/tui/common"
)

const (
	// DriftTolerance is how far the backdrop may lag before it is re-seeked.
	DriftTolerance = 0.2 // seconds

	defaultAmbientEvery = 800 * time.Millisecond
)

// Options configures a Card.
type Options struct {
	Now          func() time.Time
	AmbientEvery time.Duration
}

// Card is the playback state for one post.
type Card struct {
	post  domain.Post
	fg    Player
	bg    Player
	store *common.Store
	unsub func()

	now          func() time.Time
	ambientEvery time.Duration
	sampler      Sampler
	lastSample   time.Time

	active     bool
	userPaused bool
	watchFrom  time.Time // zero while not playing
	watched    time.Duration
}

// New creates an inactive card. The backdrop player is muted for good.
func New(post domain.Post, fg, bg Player, store *common.Store, opts Options) *Card {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	every := opts.AmbientEvery
	if every <= 0 {
		every = defaultAmbientEvery
	}
	bg.SetMuted(true)
	fg.SetMuted(store.Muted.Get())
	return &Card{
		post:         post,
		fg:           fg,
		bg:           bg,
		store:        store,
		unsub:        store.Muted.Subscribe(fg.SetMuted),
		now:          now,
		ambientEvery: every,
	}
}

// Close detaches the card from the shared store. The card must not be used
// afterwards.
func (c *Card) Close() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
}

func (c *Card) Post() domain.Post { return c.post }
func (c *Card) Active() bool      { return c.active }
func (c *Card) Ready() bool       { return c.fg.Ready() }

// Playing reports whether the foreground is running.
func (c *Card) Playing() bool { return c.active && !c.fg.Paused() }

// Load hands decoded frames to both players.
func (c *Card) Load(clip domain.Clip) {
	c.fg.Load(clip)
	c.bg.Load(clip)
	if c.active && !c.userPaused {
		c.play()
	}
}

// Sync applies the active flag. Leaving the active state
// pauses and rewinds both players and returns the seconds watched during
// the activation.
func (c *Card) Sync(active bool) float64 {
	switch {
	case active && !c.active:
		c.active = true
		c.userPaused = false
		c.lastSample = time.Time{}
		c.play()
		return 0
	case !active && c.active:
		c.pause()
		c.fg.Seek(0)
		c.bg.Seek(0)
		c.active = false
		c.userPaused = false
		watched := c.watched.Seconds()
		c.watched = 0
		return watched
	}
	return 0
}

// Toggle flips play/pause on the active card.
func (c *Card) Toggle() {
	if !c.active {
		return
	}
	if c.fg.Paused() {
		c.userPaused = false
		c.play()
		return
	}
	c.userPaused = true
	c.pause()
}

// Tick keeps the backdrop aligned with the foreground and, on the active
// card only, refreshes the ambient colour.
func (c *Card) Tick() {
	c.bg.SetMuted(true)

	if c.fg.Ready() && math.Abs(c.bg.CurrentTime()-c.fg.CurrentTime()) > DriftTolerance {
		c.bg.Seek(c.fg.CurrentTime())
	}

	if !c.active {
		return
	}
	now := c.now()
	if !c.lastSample.IsZero() && now.Sub(c.lastSample) < c.ambientEvery {
		return
	}
	c.lastSample = now
	if hex, changed := c.sampler.Sample(c.fg.Frame()); changed {
		c.store.Ambient.Set(hex)
	}
}

// Progress is the playhead as a share of the duration, in [0,1].
func (c *Card) Progress() float64 {
	d := c.fg.Duration()
	if d <= 0 {
		return 0
	}
	return math.Min(math.Max(c.fg.CurrentTime()/d, 0), 1)
}

func (c *Card) play() {
	c.fg.Play()
	c.bg.Play()
	// time on the placeholder is not watch time
	if c.watchFrom.IsZero() && c.fg.Ready() {
		c.watchFrom = c.now()
	}
}

func (c *Card) pause() {
	c.fg.Pause()
	c.bg.Pause()
	if !c.watchFrom.IsZero() {
		c.watched += c.now().Sub(c.watchFrom)
		c.watchFrom = time.Time{}
	}
}
