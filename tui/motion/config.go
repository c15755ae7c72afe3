// Package motion recognises navigation gestures and runs the snap
// transition between feed items.
//
// Distances are pixel-equivalents. Offsets are positive when the view is
// displaced toward the next item.
package motion

import "time"

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// Config holds the gesture and animation tunables.
type Config struct {
	WheelThreshold float64       // minimum |deltaY| for a wheel event to count
	WheelCooldown  time.Duration // wheel events ignored this long after a snap
	LineHeight     float64       // pixels per line-mode wheel delta
	TouchDamping   float64       // drag preview factor
	TouchRatio     float64       // commit threshold as a share of the height
	TouchMin       float64
	TouchMax       float64
	SnapDuration   time.Duration
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		WheelThreshold: 28,
		WheelCooldown:  600 * time.Millisecond,
		LineHeight:     16,
		TouchDamping:   0.7,
		TouchRatio:     0.25,
		TouchMin:       80,
		TouchMax:       240,
		SnapDuration:   320 * time.Millisecond,
	}
}

// TouchThreshold is the drag distance needed to commit a swipe for a
// container of the given height.
func (c Config) TouchThreshold(height float64) float64 {
	return clamp(height*c.TouchRatio, c.TouchMin, c.TouchMax)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
