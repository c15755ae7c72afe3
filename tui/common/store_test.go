package common

import "testing"

func TestCell_SetNotifiesOnChangeOnly(t *testing.T) {
	c := NewCell(false)
	var seen []bool
	unsub := c.Subscribe(func(v bool) { seen = append(seen, v) })

	if c.Set(false) {
		t.Fatalf("setting the same value should report no change")
	}
	if !c.Set(true) {
		t.Fatalf("expected change")
	}
	if len(seen) != 1 || !seen[0] {
		t.Fatalf("unexpected notifications: %v", seen)
	}

	unsub()
	c.Set(false)
	if len(seen) != 1 {
		t.Fatalf("unsubscribed callback fired: %v", seen)
	}
	if c.Get() {
		t.Fatalf("expected false after set")
	}
}

func TestStore_MuteAndAmbient(t *testing.T) {
	s := NewStore(true)
	if !s.Muted.Get() {
		t.Fatalf("expected muted start")
	}
	if s.ToggleMuted() || s.Muted.Get() {
		t.Fatalf("toggle should unmute")
	}
	if got := s.AmbientOr(Baseline); got != Baseline {
		t.Fatalf("expected baseline fallback, got %q", got)
	}
	s.Ambient.Set("#203040")
	if got := s.AmbientOr(Baseline); got != "#203040" {
		t.Fatalf("expected sampled ambient, got %q", got)
	}
}
