package card

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/image/draw"

	"github.com/chillchill/chilltok/tui/common"
)

// RailWidth is the column count of the action rail on the right edge.
const RailWidth = 9

const blurFactor = 8

var backdropShade = image.NewUniform(color.RGBA{A: 150})

// View renders the card into exactly width x height cells.
func (c *Card) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	rail := min(RailWidth, width/4)
	videoW := width - rail

	info := c.infoLines(videoW)
	if len(info)+2 > height {
		info = info[:max(height-2, 0)]
	}
	videoH := max(height-len(info)-1, 0)

	left := make([]string, 0, height)
	if videoH > 0 {
		left = append(left, c.renderVideo(videoW, videoH)...)
	}
	left = append(left, info...)
	left = append(left, c.progressBar(videoW))

	ambient := lipgloss.Color(c.store.AmbientOr(common.Baseline))
	leftBlock := lipgloss.NewStyle().
		Width(videoW).
		Background(ambient).
		Render(strings.Join(left, "\n"))

	out := leftBlock
	if rail > 0 {
		railBlock := lipgloss.NewStyle().
			Width(rail).
			Height(height).
			Background(ambient).
			Render(c.rail(rail))
		out = lipgloss.JoinHorizontal(lipgloss.Top, leftBlock, railBlock)
	}
	return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(out)
}

func (c *Card) infoLines(width int) []string {
	if width < 4 {
		return nil
	}
	lines := make([]string, 0, 4)
	lines = append(lines, common.AuthorStyle.Render(ansi.Truncate("@"+c.post.Author.Username, width, "…")))
	if caption := strings.TrimSpace(c.post.Caption); caption != "" {
		lines = append(lines, common.CaptionStyle.Render(ansi.Truncate(caption, width, "…")))
	}
	if tags := common.JoinTags(c.post.Tags); tags != "" {
		lines = append(lines, common.TagStyle.Render(ansi.Truncate(tags, width, "…")))
	}
	if music := strings.TrimSpace(c.post.Music); music != "" {
		lines = append(lines, common.MusicStyle.Render(ansi.Truncate("♫ "+music, width, "…")))
	}
	return lines
}

func (c *Card) progressBar(width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(c.Progress() * float64(width))
	return common.ProgressFilledStyle.Render(strings.Repeat("━", filled)) +
		common.ProgressEmptyStyle.Render(strings.Repeat("─", width-filled))
}

func (c *Card) rail(width int) string {
	stat := common.StatStyle.Width(width)
	hot := common.ReactedStyle.Width(width)

	react := stat
	if c.post.ViewerReaction != nil {
		react = hot
	}
	save := stat
	if c.post.Saved() {
		save = hot
	}
	parts := []string{
		"",
		react.Render("♥"),
		stat.Render(common.FormatCount(c.post.TotalReactions())),
		"",
		stat.Render("✎"),
		stat.Render(common.FormatCount(c.post.CommentCount)),
		"",
		save.Render("⚑"),
		stat.Render(common.FormatCount(c.post.SaveCount)),
		"",
	}
	if c.store.Muted.Get() {
		parts = append(parts, badge(width, "muted"))
	}
	if c.active && c.fg.Paused() {
		parts = append(parts, badge(width, "paused"))
	}
	return strings.Join(parts, "\n")
}

func badge(width int, label string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, common.BadgeStyle.Render(label))
}

// renderVideo draws the foreground frame over a blurred, shaded copy of the
// backdrop frame using half blocks: two pixel rows per cell.
func (c *Card) renderVideo(w, h int) []string {
	fg, bg := c.fg.Frame(), c.bg.Frame()
	if fg == nil {
		return placeholder(w, h, c.store.AmbientOr(common.Baseline))
	}
	canvas := compose(fg, bg, w, h*2)
	return halfBlocks(canvas)
}

func placeholder(w, h int, bg string) []string {
	block := lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center,
		common.StatusBarStyle.Render("loading…"),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(bg)))
	return strings.Split(block, "\n")
}

func compose(fg, bg image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(baseline), image.Point{}, draw.Src)

	if bg != nil {
		small := image.NewRGBA(image.Rect(0, 0, max(w/blurFactor, 1), max(h/blurFactor, 1)))
		draw.ApproxBiLinear.Scale(small, small.Bounds(), bg, coverRect(bg.Bounds(), w, h), draw.Src, nil)
		draw.BiLinear.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)
		draw.Draw(dst, dst.Bounds(), backdropShade, image.Point{}, draw.Over)
	}
	draw.ApproxBiLinear.Scale(dst, fitRect(fg.Bounds(), w, h), fg, fg.Bounds(), draw.Over, nil)
	return dst
}

// fitRect is the largest rect with src's aspect centred in w x h.
func fitRect(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 {
		return image.Rect(0, 0, w, h)
	}
	fw, fh := w, sh*w/sw
	if fh > h {
		fw, fh = sw*h/sh, h
	}
	fw, fh = max(fw, 1), max(fh, 1)
	x, y := (w-fw)/2, (h-fh)/2
	return image.Rect(x, y, x+fw, y+fh)
}

// coverRect crops src to the aspect of w x h, centred.
func coverRect(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 || w <= 0 || h <= 0 {
		return src
	}
	cw, ch := sw, sw*h/w
	if ch > sh {
		cw, ch = sh*w/h, sh
	}
	x := src.Min.X + (sw-cw)/2
	y := src.Min.Y + (sh-ch)/2
	return image.Rect(x, y, x+cw, y+ch)
}

func halfBlocks(img *image.RGBA) []string {
	b := img.Bounds()
	rows := b.Dy() / 2
	out := make([]string, 0, rows)
	var line strings.Builder
	for y := 0; y < rows; y++ {
		line.Reset()
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.RGBAAt(x, b.Min.Y+2*y)
			bot := img.RGBAAt(x, b.Min.Y+2*y+1)
			fmt.Fprintf(&line, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", top.R, top.G, top.B, bot.R, bot.G, bot.B)
		}
		line.WriteString("\x1b[0m")
		out = append(out, line.String())
	}
	return out
}
