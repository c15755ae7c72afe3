package card

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/chillchill/chilltok/domain"
	"github.com/chillchill/chilltok/tui/common"
)

type fakePlayer struct {
	clip    domain.Clip
	playing bool
	muted   bool
	pos     float64
	seeks   []float64
	frame   image.Image
}

func (p *fakePlayer) Load(clip domain.Clip) {
	p.clip = clip
	if len(clip.Frames) > 0 {
		p.frame = clip.Frames[0]
	}
}
func (p *fakePlayer) Ready() bool          { return p.frame != nil }
func (p *fakePlayer) Play()                { p.playing = true }
func (p *fakePlayer) Pause()               { p.playing = false }
func (p *fakePlayer) Paused() bool         { return !p.playing }
func (p *fakePlayer) Seek(sec float64)     { p.pos = sec; p.seeks = append(p.seeks, sec) }
func (p *fakePlayer) CurrentTime() float64 { return p.pos }
func (p *fakePlayer) Duration() float64    { return p.clip.Duration() }
func (p *fakePlayer) SetMuted(m bool)      { p.muted = m }
func (p *fakePlayer) Muted() bool          { return p.muted }
func (p *fakePlayer) Frame() image.Image   { return p.frame }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func uniform(c color.Color, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func testClip(c color.Color) domain.Clip {
	frames := make([]image.Image, 8)
	for i := range frames {
		frames[i] = uniform(c, 16, 16)
	}
	return domain.Clip{Frames: frames, FPS: 4}
}

func newTestCard(t *testing.T) (*Card, *fakePlayer, *fakePlayer, *common.Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := common.NewStore(true)
	fg, bg := &fakePlayer{}, &fakePlayer{}
	post := domain.Post{
		ID:        "p1",
		Author:    domain.Author{Username: "mika"},
		Caption:   "sunset run",
		Tags:      []string{"run"},
		Music:     "original sound",
		SaveCount: 3,
	}
	c := New(post, fg, bg, store, Options{Now: clock.now})
	c.Load(testClip(color.RGBA{R: 255, A: 255}))
	return c, fg, bg, store, clock
}

func TestCard_SyncPlaysAndRewinds(t *testing.T) {
	c, fg, bg, _, clock := newTestCard(t)
	if fg.playing || bg.playing {
		t.Fatalf("inactive card must not play")
	}

	c.Sync(true)
	if !fg.playing || !bg.playing || !c.Playing() {
		t.Fatalf("active card should play both players")
	}
	clock.advance(3 * time.Second)
	fg.pos, bg.pos = 1.5, 1.5

	watched := c.Sync(false)
	if watched != 3 {
		t.Fatalf("expected 3s watched, got %v", watched)
	}
	if fg.playing || bg.playing {
		t.Fatalf("deactivated card must pause both players")
	}
	if fg.pos != 0 || bg.pos != 0 {
		t.Fatalf("deactivated card must rewind, got fg=%v bg=%v", fg.pos, bg.pos)
	}
	if again := c.Sync(false); again != 0 {
		t.Fatalf("repeated deactivation should report nothing, got %v", again)
	}
}

func TestCard_ToggleExcludesPausedTime(t *testing.T) {
	c, fg, _, _, clock := newTestCard(t)
	c.Sync(true)
	clock.advance(time.Second)
	c.Toggle()
	if fg.playing {
		t.Fatalf("toggle should pause")
	}
	clock.advance(10 * time.Second)
	c.Toggle()
	if !fg.playing {
		t.Fatalf("toggle should resume")
	}
	clock.advance(time.Second)
	if got := c.Sync(false); got != 2 {
		t.Fatalf("expected 2s watched, got %v", got)
	}

	c.Toggle()
	if fg.playing {
		t.Fatalf("toggle on an inactive card must do nothing")
	}
}

func TestCard_TickResyncsDrift(t *testing.T) {
	c, fg, bg, _, _ := newTestCard(t)
	c.Sync(true)

	fg.pos, bg.pos = 1.0, 1.1
	c.Tick()
	if len(bg.seeks) != 0 {
		t.Fatalf("small drift should not re-seek, got %v", bg.seeks)
	}
	bg.pos = 1.3
	c.Tick()
	if bg.pos != 1.0 {
		t.Fatalf("expected backdrop re-seeked to 1.0, got %v", bg.pos)
	}

	bg.muted = false
	c.Tick()
	if !bg.muted {
		t.Fatalf("expected backdrop to stay muted")
	}
}

func TestCard_ForegroundFollowsStoreMute(t *testing.T) {
	c, fg, bg, store, _ := newTestCard(t)

	store.Muted.Set(false)
	if fg.muted || !bg.muted {
		t.Fatalf("expected fg to follow store and bg to stay muted, fg=%v bg=%v", fg.muted, bg.muted)
	}

	c.Close()
	store.Muted.Set(true)
	if fg.muted {
		t.Fatalf("closed card must stop following the store")
	}
}

func TestCard_AmbientOnlyWhileActive(t *testing.T) {
	c, fg, _, store, clock := newTestCard(t)

	c.Tick()
	if store.Ambient.Get() != "" {
		t.Fatalf("inactive card must not write ambient")
	}

	var writes []string
	store.Ambient.Subscribe(func(v string) { writes = append(writes, v) })

	c.Sync(true)
	c.Tick()
	if got := store.Ambient.Get(); got != "#590f11" {
		t.Fatalf("unexpected ambient %q", got)
	}

	clock.advance(400 * time.Millisecond)
	fg.frame = uniform(color.RGBA{G: 255, A: 255}, 8, 8)
	c.Tick()
	if len(writes) != 1 {
		t.Fatalf("sampling is throttled to the interval, got %v", writes)
	}

	clock.advance(400 * time.Millisecond)
	fg.frame = uniform(color.RGBA{R: 255, A: 255}, 4, 4)
	c.Tick()
	if len(writes) != 1 {
		t.Fatalf("same colour must not be republished, got %v", writes)
	}

	clock.advance(800 * time.Millisecond)
	fg.frame = uniform(color.RGBA{G: 255, A: 255}, 8, 8)
	c.Tick()
	if len(writes) != 2 {
		t.Fatalf("new colour should publish, got %v", writes)
	}
}

func TestCard_Progress(t *testing.T) {
	c, fg, _, _, _ := newTestCard(t)
	fg.pos = 1
	if got := c.Progress(); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	fg.pos = 5
	if got := c.Progress(); got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
	fg.pos = -1
	if got := c.Progress(); got != 0 {
		t.Fatalf("expected clamp to 0, got %v", got)
	}
	fg.clip = domain.Clip{}
	if got := c.Progress(); got != 0 {
		t.Fatalf("zero duration should give 0, got %v", got)
	}
}

func TestCard_ViewFillsArea(t *testing.T) {
	c, _, _, _, _ := newTestCard(t)
	c.Sync(true)
	for _, size := range [][2]int{{60, 20}, {30, 6}, {12, 3}} {
		out := c.View(size[0], size[1])
		if got := lipgloss.Height(out); got != size[1] {
			t.Fatalf("%v: expected %d rows, got %d", size, size[1], got)
		}
	}
	out := c.View(60, 20)
	if !strings.Contains(out, "@mika") || !strings.Contains(out, "#run") {
		t.Fatalf("expected author and tags in view")
	}
	if c.View(0, 10) != "" {
		t.Fatalf("zero width should render nothing")
	}
}

func TestCard_RailBadges(t *testing.T) {
	c, _, _, store, _ := newTestCard(t)
	c.Sync(true)
	if !strings.Contains(c.View(60, 20), "muted") {
		t.Fatalf("expected muted badge")
	}

	store.Muted.Set(false)
	c.Toggle()
	out := c.View(60, 20)
	if strings.Contains(out, "muted") || !strings.Contains(out, "paused") {
		t.Fatalf("expected only the paused badge")
	}
}

func TestCard_WatchTimeStartsWhenFramesArrive(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	fg, bg := &fakePlayer{}, &fakePlayer{}
	c := New(domain.Post{ID: "p2"}, fg, bg, common.NewStore(true), Options{Now: clock.now})

	c.Sync(true)
	clock.advance(5 * time.Second)
	c.Load(testClip(color.RGBA{G: 255, A: 255}))
	clock.advance(2 * time.Second)

	if got := c.Sync(false); got != 2 {
		t.Fatalf("expected only the 2s after loading, got %v", got)
	}
}

func TestCard_PlaceholderOnlyRecordsNothing(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(domain.Post{ID: "p3"}, &fakePlayer{}, &fakePlayer{}, common.NewStore(true), Options{Now: clock.now})

	c.Sync(true)
	clock.advance(4 * time.Second)
	if got := c.Sync(false); got != 0 {
		t.Fatalf("a card that never loaded should report 0s, got %v", got)
	}
}
