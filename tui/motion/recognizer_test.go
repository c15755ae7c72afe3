package motion

import (
	"math"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock { return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)} }

func TestRecognizer_WheelThresholdAndModes(t *testing.T) {
	r := NewRecognizer(DefaultConfig(), newClock().now)

	if got := r.Wheel(WheelEvent{DeltaY: 27}, 800); got.Kind != SignalNone {
		t.Fatalf("small delta should be ignored, got %+v", got)
	}
	if got := r.Wheel(WheelEvent{DeltaY: 40}, 800); got.Kind != SignalAdvance || got.Dir != 1 {
		t.Fatalf("expected advance +1, got %+v", got)
	}
	if got := r.Wheel(WheelEvent{DeltaY: -2, Mode: DeltaLine}, 800); got.Kind != SignalAdvance || got.Dir != -1 {
		t.Fatalf("two lines up should advance -1, got %+v", got)
	}
	if got := r.Wheel(WheelEvent{DeltaY: 1, Mode: DeltaLine}, 800); got.Kind != SignalNone {
		t.Fatalf("one line (16px) is under threshold, got %+v", got)
	}
	if got := r.Wheel(WheelEvent{DeltaY: 0.1, Mode: DeltaPage}, 800); got.Kind != SignalAdvance {
		t.Fatalf("page mode scales by height, got %+v", got)
	}
	if got := r.Wheel(WheelEvent{DeltaY: 100, OptOut: true}, 800); got.Kind != SignalNone {
		t.Fatalf("opt-out target should be ignored, got %+v", got)
	}
}

func TestRecognizer_WheelCooldown(t *testing.T) {
	clock := newClock()
	r := NewRecognizer(DefaultConfig(), clock.now)
	r.Snapped()

	clock.advance(599 * time.Millisecond)
	if got := r.Wheel(WheelEvent{DeltaY: 100}, 800); got.Kind != SignalNone {
		t.Fatalf("expected cooldown to drop wheel, got %+v", got)
	}
	clock.advance(time.Millisecond)
	if got := r.Wheel(WheelEvent{DeltaY: 100}, 800); got.Kind != SignalAdvance {
		t.Fatalf("expected wheel accepted after cooldown, got %+v", got)
	}
}

func TestRecognizer_TouchDragAndCommit(t *testing.T) {
	r := NewRecognizer(DefaultConfig(), newClock().now)

	r.Touch(TouchEvent{Phase: TouchStart, Y: 500}, 800)
	got := r.Touch(TouchEvent{Phase: TouchMove, Y: 400}, 800)
	if got.Kind != SignalDrag || math.Abs(got.Offset-70) > 1e-9 {
		t.Fatalf("expected damped drag 70, got %+v", got)
	}
	// threshold is clamp(0.25*800, 80, 240) = 200
	if got := r.Touch(TouchEvent{Phase: TouchEnd, Y: 250}, 800); got.Kind != SignalAdvance || got.Dir != 1 {
		t.Fatalf("swipe up past threshold should advance +1, got %+v", got)
	}

	r.Touch(TouchEvent{Phase: TouchStart, Y: 100}, 800)
	if got := r.Touch(TouchEvent{Phase: TouchEnd, Y: 250}, 800); got.Kind != SignalRelease {
		t.Fatalf("short swipe should release, got %+v", got)
	}

	r.Touch(TouchEvent{Phase: TouchStart, Y: 100}, 200)
	if got := r.Touch(TouchEvent{Phase: TouchEnd, Y: 190}, 200); got.Kind != SignalAdvance || got.Dir != -1 {
		t.Fatalf("threshold floors at 80, swipe down 90 should advance -1, got %+v", got)
	}
}

func TestRecognizer_TouchOptOutIgnoresLifecycle(t *testing.T) {
	r := NewRecognizer(DefaultConfig(), newClock().now)

	r.Touch(TouchEvent{Phase: TouchStart, Y: 500, OptOut: true}, 800)
	if got := r.Touch(TouchEvent{Phase: TouchMove, Y: 100}, 800); got.Kind != SignalNone {
		t.Fatalf("move after opt-out start should be ignored, got %+v", got)
	}
	if got := r.Touch(TouchEvent{Phase: TouchEnd, Y: 0}, 800); got.Kind != SignalNone {
		t.Fatalf("end after opt-out start should be ignored, got %+v", got)
	}
	if r.Touching() {
		t.Fatalf("lifecycle should be over after end")
	}
	if got := r.Touch(TouchEvent{Phase: TouchMove, Y: 0}, 800); got.Kind != SignalNone {
		t.Fatalf("move without start should be ignored, got %+v", got)
	}
}

func TestRecognizer_Keys(t *testing.T) {
	r := NewRecognizer(DefaultConfig(), nil)
	for _, k := range []string{"down", "pgdown", "j"} {
		if got := r.Key(KeyEvent{Key: k}); got.Kind != SignalAdvance || got.Dir != 1 {
			t.Fatalf("%q: expected +1, got %+v", k, got)
		}
	}
	for _, k := range []string{"up", "pgup", "k"} {
		if got := r.Key(KeyEvent{Key: k}); got.Kind != SignalAdvance || got.Dir != -1 {
			t.Fatalf("%q: expected -1, got %+v", k, got)
		}
	}
	if got := r.Key(KeyEvent{Key: "j", Editable: true}); got.Kind != SignalNone {
		t.Fatalf("editable focus should suppress keys, got %+v", got)
	}
	if got := r.Key(KeyEvent{Key: "x"}); got.Kind != SignalNone {
		t.Fatalf("unbound key should be ignored, got %+v", got)
	}
}

func TestConfig_TouchThreshold(t *testing.T) {
	c := DefaultConfig()
	cases := map[float64]float64{100: 80, 400: 100, 2000: 240}
	for h, want := range cases {
		if got := c.TouchThreshold(h); got != want {
			t.Fatalf("TouchThreshold(%v) = %v, want %v", h, got, want)
		}
	}
}
