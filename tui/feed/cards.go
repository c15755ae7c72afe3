package feed

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chillchill/chilltok/tui/card"
)

// preloadWindow is the index range whose cards are kept: the active item,
// tier items ahead, and the target of a running snap.
func (m Model) preloadWindow() (lo, hi int) {
	n := len(m.source.items)
	if n == 0 {
		return 0, -1
	}
	idx := m.nav.Index()
	lo, hi = idx, min(idx+m.tier, n-1)
	if t := m.nav.Target(); t < lo {
		lo = t
	} else if t > hi {
		hi = t
	}
	return lo, hi
}

// syncCards creates cards entering the window, drops cards leaving it and
// moves playback to the active index. Watch time of a deactivated card is
// reported.
func (m *Model) syncCards() tea.Cmd {
	lo, hi := m.preloadWindow()
	active := m.nav.Index()
	if m.nav.Animating() {
		active = -1
	}
	var cmds []tea.Cmd

	for i, c := range m.playback.cards {
		if i >= lo && i <= hi && i < len(m.source.items) {
			continue
		}
		cmds = append(cmds, m.recordView(c.Post().ID, c.Sync(false)))
		c.Close()
		delete(m.playback.cards, i)
	}

	for i := lo; i <= hi; i++ {
		post := m.source.items[i]
		c, ok := m.playback.cards[i]
		if !ok {
			c = card.New(post, m.newPlayer(), m.newPlayer(), m.playback.store, card.Options{
				Now:          m.now,
				AmbientEvery: m.playback.ambientEvery,
			})
			m.playback.cards[i] = c
		}
		if i != active {
			cmds = append(cmds, m.recordView(post.ID, c.Sync(false)))
		}
		if !c.Ready() && !m.playback.clipLoading[i] && !m.playback.clipFailed[i] && m.media != nil {
			m.playback.clipLoading[i] = true
			cmds = append(cmds, m.loadClip(i, post))
		}
	}
	if c, ok := m.playback.cards[active]; ok {
		c.Sync(true)
	}
	return tea.Batch(cmds...)
}

func (m *Model) dropCards() tea.Cmd {
	var cmds []tea.Cmd
	for i, c := range m.playback.cards {
		cmds = append(cmds, m.recordView(c.Post().ID, c.Sync(false)))
		c.Close()
		delete(m.playback.cards, i)
	}
	clear(m.playback.clipLoading)
	clear(m.playback.clipFailed)
	return tea.Batch(cmds...)
}

func (m Model) activeCard() *card.Card {
	if m.nav.Animating() {
		return nil
	}
	return m.playback.cards[m.nav.Index()]
}
