package common

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/chillchill/chilltok/domain"
)

// PostSummary renders a post as author, caption, tags, music and counters,
// wrapped or truncated to width.
func PostSummary(p domain.Post, width int) string {
	lines := []string{AuthorStyle.Render(ansi.Truncate(p.Author.Name(), width, "…")) +
		" " + StatusBarStyle.Render("@"+p.Author.Username)}
	if p.Caption != "" {
		lines = append(lines, CaptionStyle.Width(width).Render(p.Caption))
	}
	if tags := JoinTags(p.Tags); tags != "" {
		lines = append(lines, TagStyle.Render(ansi.Truncate(tags, width, "…")))
	}
	if p.Music != "" {
		lines = append(lines, MusicStyle.Render(ansi.Truncate("♫ "+p.Music, width, "…")))
	}
	lines = append(lines, "", StatusBarStyle.Render(fmt.Sprintf("♥ %s  ✎ %s  ⚑ %s",
		FormatCount(p.TotalReactions()),
		FormatCount(p.CommentCount),
		FormatCount(p.SaveCount),
	)))
	return strings.Join(lines, "\n")
}
