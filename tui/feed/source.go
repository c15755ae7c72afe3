package feed

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chillchill/chilltok/domain"
)

// startFetch issues a page request. The previous request, if any, is
// cancelled and its result will be dropped. Appends are refused while a
// request is in flight or the feed is exhausted.
func (m *Model) startFetch(mode fetchMode) tea.Cmd {
	if m.feed == nil {
		return nil
	}
	if mode == fetchAppend && (m.source.loading || !m.source.hasMore) {
		return nil
	}
	m.abortFetch()
	m.source.reqSeq++
	m.source.loading = true
	m.source.mode = mode

	q := domain.FeedQuery{Algo: m.source.algo, Limit: m.source.limit}
	if mode == fetchAppend {
		q.Cursor = m.source.nextCursor
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.source.cancel = cancel
	m.log.Debug("feed fetch", "mode", mode, "algo", q.Algo, "cursor", q.Cursor, "seq", m.source.reqSeq)
	return fetchFeedPage(ctx, m.feed, q, m.source.reqSeq, mode)
}

// fetchWithSpinner starts a fetch and restarts the spinner, whose tick
// chain stops whenever nothing is loading.
func (m *Model) fetchWithSpinner(mode fetchMode) tea.Cmd {
	idle := !m.source.loading && !m.prompt.looking
	cmd := m.startFetch(mode)
	if cmd == nil || !idle {
		return cmd
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

// abortFetch cancels the in-flight request. Safe to call repeatedly.
func (m *Model) abortFetch() {
	if m.source.cancel != nil {
		m.source.cancel()
		m.source.cancel = nil
	}
}

// reset clears the feed and fetches the first page again.
func (m *Model) reset() tea.Cmd {
	record := m.dropCards()
	m.source.items = nil
	m.source.nextCursor = ""
	m.source.hasMore = false
	m.source.err = nil
	m.source.epoch++
	m.nav.Reset()
	m.guard.reset()
	return tea.Batch(record, m.fetchWithSpinner(fetchReset))
}

// SetAlgo switches the feed algorithm. Selecting the current one does
// nothing.
func (m *Model) SetAlgo(algo domain.Algo) tea.Cmd {
	if algo == m.source.algo {
		return nil
	}
	m.source.algo = algo
	return tea.Batch(m.reset(), m.emitPrefsChanged())
}

func (m *Model) applyPage(mode fetchMode, page domain.FeedPage) {
	if mode == fetchReset {
		m.source.items = append([]domain.Post(nil), page.Items...)
	} else {
		m.source.items = append(m.source.items, page.Items...)
	}
	m.source.nextCursor = ""
	if page.Paging.NextCursor != nil {
		m.source.nextCursor = *page.Paging.NextCursor
	}
	m.source.hasMore = page.Paging.HasMore
	if m.source.hasMore && m.source.nextCursor == "" {
		m.log.Warn("feed page claims more items without a cursor", "algo", m.source.algo)
		m.source.hasMore = false
	}
	m.source.err = nil
	m.nav.SetLength(len(m.source.items))
}
