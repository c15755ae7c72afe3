package motion

import (
	"math"
	"time"
)

// Recognizer turns raw wheel, touch and key input into navigation signals.
// It is not safe for concurrent use; the UI loop owns it.
type Recognizer struct {
	cfg Config
	now Clock

	lastSnap time.Time

	touching bool
	ignoring bool // current touch began on an opt-out target
	startY   float64
}

// NewRecognizer creates a recognizer. A nil clock uses time.Now.
func NewRecognizer(cfg Config, now Clock) *Recognizer {
	if now == nil {
		now = time.Now
	}
	return &Recognizer{cfg: cfg, now: now}
}

// Snapped starts the wheel cooldown. Call it whenever a snap is accepted,
// whatever input caused it.
func (r *Recognizer) Snapped() {
	r.lastSnap = r.now()
}

// Wheel handles a wheel event for a container of the given height.
func (r *Recognizer) Wheel(e WheelEvent, height float64) Signal {
	if e.OptOut {
		return none
	}
	delta := e.DeltaY
	switch e.Mode {
	case DeltaLine:
		delta *= r.cfg.LineHeight
	case DeltaPage:
		delta *= height
	}
	if math.Abs(delta) < r.cfg.WheelThreshold {
		return none
	}
	if !r.lastSnap.IsZero() && r.now().Sub(r.lastSnap) < r.cfg.WheelCooldown {
		return none
	}
	if delta > 0 {
		return advance(1)
	}
	return advance(-1)
}

// Touch handles one touch lifecycle step.
func (r *Recognizer) Touch(e TouchEvent, height float64) Signal {
	switch e.Phase {
	case TouchStart:
		r.touching = true
		r.ignoring = e.OptOut
		r.startY = e.Y
		return none

	case TouchMove:
		if !r.touching || r.ignoring {
			return none
		}
		return drag((r.startY - e.Y) * r.cfg.TouchDamping)

	case TouchEnd:
		if !r.touching {
			return none
		}
		ignoring := r.ignoring
		r.touching, r.ignoring = false, false
		if ignoring {
			return none
		}
		delta := r.startY - e.Y
		if math.Abs(delta) > r.cfg.TouchThreshold(height) {
			if delta > 0 {
				return advance(1)
			}
			return advance(-1)
		}
		return release
	}
	return none
}

// Touching reports whether a touch lifecycle is in progress.
func (r *Recognizer) Touching() bool { return r.touching }

// Key handles a key press.
func (r *Recognizer) Key(e KeyEvent) Signal {
	if e.Editable || e.OptOut {
		return none
	}
	switch e.Key {
	case "down", "pgdown", "j":
		return advance(1)
	case "up", "pgup", "k":
		return advance(-1)
	}
	return none
}
