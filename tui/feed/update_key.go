package feed

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chillchill/chilltok/domain"
	"github.com/chillchill/chilltok/tui/card"
	"github.com/chillchill/chilltok/tui/motion"
)

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.prompt.open {
		return m.handlePromptKey(msg)
	}
	if m.prompt.overlay != nil || m.prompt.err != nil {
		if key.Matches(msg, m.keys.Cancel) {
			m.closeOverlay()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.ForYou):
		return m, m.SetAlgo(domain.AlgoForYou)
	case key.Matches(msg, m.keys.Following):
		return m, m.SetAlgo(domain.AlgoFollowing)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.reset()
	case key.Matches(msg, m.keys.Mute):
		m.playback.store.ToggleMuted()
		return m, m.emitPrefsChanged()
	case key.Matches(msg, m.keys.PlayPause):
		if c := m.activeCard(); c != nil {
			c.Toggle()
		}
		return m, nil
	case key.Matches(msg, m.keys.OpenPost):
		return m, m.openPrompt()
	}

	sig := m.gestures.Key(motion.KeyEvent{Key: msg.String()})
	return m.applySignal(sig)
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (Model, tea.Cmd) {
	optOut := m.prompt.open || m.prompt.overlay != nil || m.overRail(msg.X)
	h := m.nav.Height()

	var sig motion.Signal
	switch {
	case msg.Button == tea.MouseButtonWheelDown:
		sig = m.gestures.Wheel(motion.WheelEvent{DeltaY: wheelLinesNotch, Mode: motion.DeltaLine, OptOut: optOut}, h)
	case msg.Button == tea.MouseButtonWheelUp:
		sig = m.gestures.Wheel(motion.WheelEvent{DeltaY: -wheelLinesNotch, Mode: motion.DeltaLine, OptOut: optOut}, h)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		sig = m.gestures.Touch(motion.TouchEvent{Phase: motion.TouchStart, Y: m.pixelY(msg.Y), OptOut: optOut}, h)
	case msg.Action == tea.MouseActionMotion && m.gestures.Touching():
		sig = m.gestures.Touch(motion.TouchEvent{Phase: motion.TouchMove, Y: m.pixelY(msg.Y)}, h)
	case msg.Action == tea.MouseActionRelease:
		sig = m.gestures.Touch(motion.TouchEvent{Phase: motion.TouchEnd, Y: m.pixelY(msg.Y)}, h)
	}
	return m.applySignal(sig)
}

// applySignal feeds a recognised gesture to the navigator.
func (m Model) applySignal(sig motion.Signal) (Model, tea.Cmd) {
	switch sig.Kind {
	case motion.SignalAdvance:
		pending, ok := m.nav.Advance(sig.Dir)
		if !ok {
			return m, nil
		}
		m.gestures.Snapped()
		return m, tea.Batch(m.syncCards(), m.snapAfter(pending.Gen, pending.After))
	case motion.SignalDrag:
		m.nav.Drag(sig.Offset)
	case motion.SignalRelease:
		m.nav.Release()
	}
	return m, nil
}

func (m Model) pixelY(row int) float64 {
	return float64(row-headerRows) * m.layout.cellHeight
}

// overRail reports whether column x is on the action rail, which is an
// interactive control rather than a swipe surface.
func (m Model) overRail(x int) bool {
	if m.layout.width <= 0 {
		return false
	}
	return x >= m.layout.width-min(card.RailWidth, m.layout.width/4)
}

func (m *Model) openPrompt() tea.Cmd {
	m.prompt.open = true
	m.prompt.input.SetValue("")
	return m.prompt.input.Focus()
}

func (m *Model) closeOverlay() {
	m.prompt.open = false
	m.prompt.looking = false
	m.prompt.overlay = nil
	m.prompt.err = nil
	m.prompt.input.Blur()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeOverlay()
		return m, nil
	case tea.KeyEnter:
		id := strings.TrimSpace(m.prompt.input.Value())
		m.prompt.open = false
		m.prompt.input.Blur()
		if id == "" || m.feed == nil {
			return m, nil
		}
		m.prompt.looking = true
		return m, tea.Batch(m.lookupPost(id), m.spinner.Tick)
	}
	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return m, cmd
}

func (m Model) handlePostLoaded(msg PostLoadedMsg) (Model, tea.Cmd) {
	if !m.prompt.looking {
		return m, nil
	}
	m.prompt.looking = false
	if msg.Err != nil {
		m.log.Warn("post lookup failed", "post", msg.ID, "err", msg.Err)
		m.prompt.err = msg.Err
		return m, nil
	}
	post := msg.Post
	m.prompt.overlay = &post
	return m, nil
}
