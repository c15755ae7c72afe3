package feed

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/chillchill/chilltok/domain"
	"github.com/chillchill/chilltok/tui/common"
)

const defaultWidth = 80

// View renders the header and the feed body.
func (m Model) View() string {
	width := m.layout.width
	if width <= 0 {
		width = defaultWidth
	}
	rows := m.feedRows()
	body := m.renderBody(width, rows)
	if box := m.renderOverlay(width); box != "" {
		body = lipgloss.Place(width, rows, lipgloss.Center, lipgloss.Center, box)
	}
	return m.renderHeader(width) + "\n" + body
}

// feedRows is the feed height in terminal rows.
func (m Model) feedRows() int {
	if m.layout.cellHeight > 0 {
		if rows := int(math.Round(m.layout.tracker.Height() / m.layout.cellHeight)); rows > 0 {
			return rows
		}
	}
	return max(m.layout.rows-headerRows-m.layout.chromeRows, 1)
}

func (m Model) renderHeader(width int) string {
	tabs := []string{common.AppTitleStyle.Render("chilltok")}
	for _, a := range []domain.Algo{domain.AlgoForYou, domain.AlgoFollowing} {
		label := algoLabel(a)
		if a == m.source.algo {
			tabs = append(tabs, common.AlgoActiveStyle.Render(label))
		} else {
			tabs = append(tabs, common.AlgoInactiveStyle.Render(label))
		}
	}
	left := strings.Join(tabs, "")

	var right string
	n := len(m.source.items)
	switch {
	case m.source.loading && n > 0:
		right = m.spinner.View() + common.StatusBarStyle.Render(" loading more")
	case m.source.err != nil && n > 0:
		right = common.NoticeStyle.Render("couldn't load more · r to retry")
	case n > 0:
		right = common.StatusBarStyle.Render(fmt.Sprintf("%d/%d", m.nav.Index()+1, n))
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left+" "+right, width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

func algoLabel(a domain.Algo) string {
	if a == domain.AlgoFollowing {
		return "Following"
	}
	return "For You"
}

func (m Model) renderBody(width, rows int) string {
	if len(m.source.items) == 0 {
		var msg string
		switch {
		case m.source.loading:
			msg = m.spinner.View() + common.StatusBarStyle.Render(" loading feed…")
		case m.source.err != nil:
			msg = common.ErrorStyle.Render("Couldn't load the feed") + "\n" +
				common.StatusBarStyle.Render(ansi.Truncate(m.source.err.Error(), max(width-4, 8), "…")) + "\n\n" +
				common.StatusBarStyle.Render("press r to retry")
		default:
			msg = common.StatusBarStyle.Render("Nothing here yet")
		}
		return lipgloss.Place(width, rows, lipgloss.Center, lipgloss.Center, msg)
	}

	idx := m.nav.Index()
	lines := make([]string, 0, rows*3)
	for i := idx - 1; i <= idx+1; i++ {
		lines = append(lines, m.slot(i, width, rows)...)
	}
	shift := 0
	if m.layout.cellHeight > 0 {
		shift = int(math.Round(m.nav.Offset() / m.layout.cellHeight))
	}
	start := min(max(rows+shift, 0), 2*rows)
	return strings.Join(lines[start:start+rows], "\n")
}

// slot renders item i as exactly rows lines.
func (m Model) slot(i, width, rows int) []string {
	var out []string
	switch {
	case i < 0 || i >= len(m.source.items):
	case m.playback.cards[i] != nil:
		out = strings.Split(m.playback.cards[i].View(width, rows), "\n")
	default:
		out = strings.Split(placeholderCard(m.source.items[i], width, rows), "\n")
	}
	blank := strings.Repeat(" ", width)
	for len(out) < rows {
		out = append(out, blank)
	}
	return out[:rows]
}

func placeholderCard(p domain.Post, width, rows int) string {
	text := common.AuthorStyle.Render(ansi.Truncate("@"+p.Author.Username, max(width-2, 1), "…"))
	return lipgloss.Place(width, rows, lipgloss.Center, lipgloss.Center, text,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(common.Baseline)))
}

func (m Model) renderOverlay(width int) string {
	inner := max(min(width-6, 60), 10)
	switch {
	case m.prompt.open:
		return common.OverlayStyle.Render(m.prompt.input.View() + "\n" +
			common.StatusBarStyle.Render("enter to open · esc to cancel"))
	case m.prompt.looking:
		return common.OverlayStyle.Render(m.spinner.View() + " looking up post…")
	case m.prompt.err != nil:
		return common.OverlayStyle.Render(common.ErrorStyle.Render(lookupError(m.prompt.err)) + "\n" +
			common.StatusBarStyle.Render("esc to close"))
	case m.prompt.overlay != nil:
		return common.OverlayStyle.Width(inner).Render(renderPostSummary(*m.prompt.overlay, inner))
	}
	return ""
}

func lookupError(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Post not found"
	case errors.Is(err, domain.ErrForbidden):
		return "This post is private"
	default:
		return "Lookup failed: " + err.Error()
	}
}

func renderPostSummary(p domain.Post, width int) string {
	return common.PostSummary(p, width) + "\n" + common.StatusBarStyle.Render("esc to close")
}
