package feed

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleFeedLoadingMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PageLoadedMsg:
		if msg.Seq != m.source.reqSeq {
			return m, nil
		}
		m.source.loading = false
		m.source.cancel = nil
		m.applyPage(msg.Mode, msg.Page)
		m.log.Info("feed page loaded",
			"mode", msg.Mode,
			"algo", m.source.algo,
			"items", len(msg.Page.Items),
			"total", len(m.source.items),
			"hasMore", m.source.hasMore,
		)
		return m, tea.Batch(m.syncCards(), m.checkPrefetch())

	case PageErrorMsg:
		if msg.Seq != m.source.reqSeq {
			return m, nil
		}
		m.source.loading = false
		m.source.cancel = nil
		m.source.err = msg.Err
		m.log.Error("feed page failed", "mode", msg.Mode, "algo", m.source.algo, "err", msg.Err)
		return m, nil

	case pageAbortedMsg:
		if msg.Seq == m.source.reqSeq {
			m.source.loading = false
			m.source.cancel = nil
		}
		return m, nil
	}
	return m, nil
}
