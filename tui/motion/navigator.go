package motion

import (
	"math"
	"time"
)

// Pending describes a snap the caller must finish by calling Complete
// with Gen once After has elapsed.
type Pending struct {
	Gen   uint64
	After time.Duration
}

// Navigator owns the feed index and the Idle/Animating state machine.
//
// Idle -> Animating when Advance accepts an in-bounds target.
// Animating -> Idle when Complete is called with the current generation at
// or after the deadline. Every other input is rejected while animating.
type Navigator struct {
	dur time.Duration
	now Clock

	index  int
	length int
	offset float64
	height float64

	animating bool
	target    int
	deadline  time.Time
	gen       uint64
}

// NewNavigator creates an idle navigator. A nil clock uses time.Now.
func NewNavigator(snap time.Duration, now Clock) *Navigator {
	if now == nil {
		now = time.Now
	}
	return &Navigator{dur: snap, now: now}
}

func (n *Navigator) Index() int         { return n.index }
func (n *Navigator) Len() int           { return n.length }
func (n *Navigator) Offset() float64    { return n.offset }
func (n *Navigator) Height() float64    { return n.height }
func (n *Navigator) Animating() bool    { return n.animating }
func (n *Navigator) Generation() uint64 { return n.gen }

// Target is the index being animated to, or the current index when idle.
func (n *Navigator) Target() int {
	if n.animating {
		return n.target
	}
	return n.index
}

// Deadline is when the running snap may complete. Zero when idle.
func (n *Navigator) Deadline() time.Time {
	if !n.animating {
		return time.Time{}
	}
	return n.deadline
}

// SetHeight updates the translate distance. A running snap keeps its
// direction at the new height.
func (n *Navigator) SetHeight(h float64) {
	n.height = math.Max(h, 0)
	if n.animating {
		n.offset = float64(n.target-n.index) * n.height
	}
}

// SetLength records the item count and clamps the index into range.
func (n *Navigator) SetLength(length int) {
	n.length = max(length, 0)
	last := max(n.length-1, 0)
	if n.index > last {
		n.index = last
	}
	if n.animating && n.target > last {
		n.cancel()
	}
}

// Advance asks to move by dir. It returns false when animating or when the
// target is out of bounds; in the latter case any drag offset springs back.
func (n *Navigator) Advance(dir int) (Pending, bool) {
	if n.animating || dir == 0 {
		return Pending{}, false
	}
	if dir > 0 {
		dir = 1
	} else {
		dir = -1
	}
	target := n.index + dir
	if n.length == 0 || target < 0 || target >= n.length {
		n.offset = 0
		return Pending{}, false
	}
	n.animating = true
	n.target = target
	n.offset = float64(dir) * n.height
	n.deadline = n.now().Add(n.dur)
	n.gen++
	return Pending{Gen: n.gen, After: n.dur}, true
}

// Complete finishes the snap started with gen. Stale generations and early
// calls are ignored.
func (n *Navigator) Complete(gen uint64, at time.Time) bool {
	if !n.animating || gen != n.gen || at.Before(n.deadline) {
		return false
	}
	n.index = n.target
	n.offset = 0
	n.animating = false
	return true
}

// Drag sets the live preview offset, limited to one screen.
func (n *Navigator) Drag(offset float64) {
	if n.animating {
		return
	}
	if n.height > 0 {
		offset = clamp(offset, -n.height, n.height)
	}
	n.offset = offset
}

// Release springs a drag back to rest.
func (n *Navigator) Release() {
	if n.animating {
		return
	}
	n.offset = 0
}

// Reset returns to index 0 and invalidates any pending completion.
func (n *Navigator) Reset() {
	n.index = 0
	n.length = 0
	n.cancel()
}

func (n *Navigator) cancel() {
	n.animating = false
	n.offset = 0
	n.target = n.index
	n.gen++
}
