package feed

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chillchill/chilltok/tui/common"
)

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.width = msg.Width
		m.layout.rows = msg.Height
		m.prompt.input.Width = max(min(msg.Width-16, 48), 8)
		m.recomputeViewport()
		return m, nil

	case common.ChromeResizedMsg:
		m.layout.chromeRows = max(msg.Height, 0)
		m.recomputeViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.source.loading && !m.prompt.looking {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case frameTickMsg:
		if msg.Gen != m.playback.tickGen {
			return m, nil
		}
		for _, c := range m.playback.cards {
			c.Tick()
		}
		return m, m.frameTick()

	case snapDoneMsg:
		return m.handleSnapDone(msg)

	case tierMeasuredMsg:
		if m.measured {
			return m, nil
		}
		m.measured = true
		m.tier = min(max(msg.Tier, 0), 2)
		m.log.Debug("lookahead tier", "tier", m.tier)
		return m, tea.Batch(m.syncCards(), m.checkPrefetch())

	case clipLoadedMsg:
		return m.handleClipLoaded(msg)

	case viewRecordedMsg:
		if msg.Err != nil {
			m.log.Warn("record view failed", "post", msg.PostID, "err", msg.Err)
		} else {
			m.log.Debug("view recorded", "post", msg.PostID, "seconds", msg.Seconds)
		}
		return m, nil

	case PageLoadedMsg, PageErrorMsg, pageAbortedMsg:
		return m.handleFeedLoadingMsg(msg)

	case PostLoadedMsg:
		return m.handlePostLoaded(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

// recomputeViewport re-reads the window geometry after a resize or a
// chrome change.
func (m *Model) recomputeViewport() {
	if sizer, ok := m.layout.src.(interface{ SetSize(rows int) }); ok && m.layout.rows > 0 {
		sizer.SetSize(m.layout.rows)
	}
	if measurer, ok := m.layout.src.(interface{ CellHeight() float64 }); ok {
		if h := measurer.CellHeight(); h > 0 {
			m.layout.cellHeight = h
		}
	}
	m.layout.tracker.SetChrome(float64(headerRows+m.layout.chromeRows) * m.layout.cellHeight)
	h, changed := m.layout.tracker.Recompute()
	if changed {
		m.nav.SetHeight(h)
	}
}

func (m Model) handleSnapDone(msg snapDoneMsg) (Model, tea.Cmd) {
	if !m.nav.Complete(msg.Gen, msg.At) {
		if m.nav.Animating() && msg.Gen == m.nav.Generation() {
			// fired early against our clock; wait out the remainder
			return m, m.snapAfter(msg.Gen, m.nav.Deadline().Sub(msg.At))
		}
		return m, nil
	}
	return m, tea.Batch(m.syncCards(), m.checkPrefetch())
}

func (m Model) handleClipLoaded(msg clipLoadedMsg) (Model, tea.Cmd) {
	if msg.Epoch != m.source.epoch {
		return m, nil
	}
	delete(m.playback.clipLoading, msg.Index)
	if msg.Err != nil {
		m.log.Debug("clip unavailable", "post", msg.PostID, "err", msg.Err)
		m.playback.clipFailed[msg.Index] = true
		return m, nil
	}
	if c, ok := m.playback.cards[msg.Index]; ok && c.Post().ID == msg.PostID {
		c.Load(msg.Clip)
	}
	return m, nil
}
