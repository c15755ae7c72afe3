package feed

import tea "github.com/charmbracelet/bubbletea"

// prefetchGuard remembers the (index, length) pair that last fired an
// append so that re-evaluating the same state does not fire again.
type prefetchGuard struct {
	lastIndex int
	lastLen   int
}

func newPrefetchGuard() prefetchGuard {
	return prefetchGuard{lastIndex: -1, lastLen: -1}
}

func (g *prefetchGuard) reset() {
	g.lastIndex, g.lastLen = -1, -1
}

// nearEnd reports whether index is within tier items of the last one.
func nearEnd(index, length, tier int) bool {
	return length > 0 && index >= length-1-tier
}

// shouldFire evaluates the guard. busy means an append cannot be issued
// right now; the pair is only recorded when it can.
func (g *prefetchGuard) shouldFire(index, length, tier int, hasMore, busy bool) bool {
	if !nearEnd(index, length, tier) {
		g.reset()
		return false
	}
	if !hasMore || busy {
		return false
	}
	if index == g.lastIndex && length == g.lastLen {
		return false
	}
	g.lastIndex, g.lastLen = index, length
	return true
}

// checkPrefetch runs after any change to the index, the item count, the
// tier or hasMore.
func (m *Model) checkPrefetch() tea.Cmd {
	if !m.guard.shouldFire(m.nav.Index(), len(m.source.items), m.tier, m.source.hasMore, m.source.loading) {
		return nil
	}
	m.log.Debug("prefetch", "index", m.nav.Index(), "len", len(m.source.items), "tier", m.tier)
	return m.fetchWithSpinner(fetchAppend)
}
