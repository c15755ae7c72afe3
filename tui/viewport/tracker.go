// Package viewport computes the usable feed height in pixel-equivalents.
package viewport

import "math"

// Source reports window geometry, most precise first.
type Source interface {
	// DynamicHeight is the live viewport height when the platform reports it.
	DynamicHeight() (float64, bool)
	// VisualHeight is the visible area, possibly fractional.
	VisualHeight() (float64, bool)
	// InnerHeight is the last-resort window height.
	InnerHeight() float64
}

// Tracker derives the feed container height from a Source minus chrome.
type Tracker struct {
	src    Source
	chrome float64
	height float64
}

func NewTracker(src Source) *Tracker {
	return &Tracker{src: src}
}

// Height returns the last computed height.
func (t *Tracker) Height() float64 { return t.height }

// SetChrome sets the height taken by bars around the feed. Call Recompute
// afterwards.
func (t *Tracker) SetChrome(px float64) {
	t.chrome = math.Max(px, 0)
}

// Recompute reads the source and reports whether the height changed.
func (t *Tracker) Recompute() (float64, bool) {
	next := math.Max(Measure(t.src)-t.chrome, 0)
	changed := next != t.height
	t.height = next
	return next, changed
}

// Measure picks the best height the source offers: dynamic, then visual
// rounded to whole pixels, then the rounded inner height.
func Measure(src Source) float64 {
	if h, ok := src.DynamicHeight(); ok && h > 0 {
		return h
	}
	if h, ok := src.VisualHeight(); ok && h > 0 {
		return math.Round(h)
	}
	return math.Round(src.InnerHeight())
}
