package common

import "github.com/charmbracelet/lipgloss"

// Baseline is the dark backdrop the ambient colour is blended toward.
const Baseline = "#0b0b0f"

var (
	// AppTitleStyle styles the application title. Rendered at call site with content.
	AppTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF2D55")).
			Padding(0, 1)

	// AlgoActiveStyle marks the selected feed algorithm in the header.
	AlgoActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F5F5F7")).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	// AlgoInactiveStyle styles the other algorithm tab.
	AlgoInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6E738D")).
				Padding(0, 1)

	// AuthorStyle styles the post author handle.
	AuthorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F5F5F7"))

	// CaptionStyle styles the caption under the author.
	CaptionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5"))

	// TagStyle styles hashtags.
	TagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7DC4E4")).
			Bold(true)

	// MusicStyle styles the soundtrack line.
	MusicStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A5ADCB")).
			Italic(true)

	// StatStyle styles the counters on the action rail.
	StatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F5F5F7")).
			Align(lipgloss.Center)

	// ReactedStyle highlights a counter the viewer contributed to.
	ReactedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF2D55")).
			Bold(true).
			Align(lipgloss.Center)

	// ProgressFilledStyle and ProgressEmptyStyle draw the playback bar.
	ProgressFilledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5F5F7"))
	ProgressEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#45475A"))

	// BadgeStyle styles small state badges (muted, paused).
	BadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0b0b0f")).
			Background(lipgloss.Color("#F5F5F7")).
			Padding(0, 1)

	// StatusBarStyle styles the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// NoticeStyle is the dim one-line notice for append failures.
	NoticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			Italic(true)

	// OverlayStyle frames the single-post overlay and the post-id prompt.
	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF2D55")).
			Padding(0, 1)

	// ErrorStyle styles error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)
)
