package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/chillchill/chilltok/app"
	"github.com/chillchill/chilltok/domain"
	"github.com/chillchill/chilltok/infra/config"
	"github.com/chillchill/chilltok/infra/logging"
	"github.com/chillchill/chilltok/tui/common"
	"github.com/chillchill/chilltok/tui/feed"
	"github.com/chillchill/chilltok/tui/motion"
	"github.com/chillchill/chilltok/tui/viewport"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Feed         app.FeedService
	Media        app.MediaService
	Probe        app.NetworkProbe
	Algo         domain.Algo
	Muted        bool
	Limit        int
	Motion       motion.Config
	CellHeight   float64
	AmbientEvery time.Duration
	StatePath    string
	Viewport     viewport.Source
	Logger       *log.Logger

	// SaveState persists preferences. Defaults to config.SaveUIState.
	SaveState func(path string, st config.UIState) error
}

// App is the root Bubble Tea model. It owns the help bar below the feed
// and persists preferences when the feed reports a change.
type App struct {
	deps   Deps
	feed   feed.Model
	store  *common.Store
	keys   common.KeyMap
	help   help.Model
	width  int
	status string // last persistence failure
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.SaveState == nil {
		deps.SaveState = config.SaveUIState
	}
	store := common.NewStore(deps.Muted)

	h := help.New()
	h.ShortSeparator = " · "

	return App{
		deps:  deps,
		store: store,
		keys:  common.DefaultKeyMap(),
		help:  h,
		feed: feed.New(feed.Deps{
			Feed:         deps.Feed,
			Media:        deps.Media,
			Probe:        deps.Probe,
			Store:        store,
			Motion:       deps.Motion,
			Algo:         deps.Algo,
			Limit:        deps.Limit,
			CellHeight:   deps.CellHeight,
			AmbientEvery: deps.AmbientEvery,
			Viewport:     deps.Viewport,
			Logger:       deps.Logger,
		}),
	}
}

// Init starts the feed and reports the help bar's height to it.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.feed.Init(), a.chromeResized())
}

// Update handles global keys and delegates the rest to the feed.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a.quit()
		}
		if !a.feed.Editing() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				return a.quit()
			case key.Matches(msg, a.keys.ToggleHints):
				a.help.ShowAll = !a.help.ShowAll
				return a, a.chromeResized()
			}
		}

	case common.PrefsChangedMsg:
		st := config.UIState{Algo: string(msg.Algo), Muted: msg.Muted}
		if err := a.deps.SaveState(a.deps.StatePath, st); err != nil {
			a.deps.Logger.Warn("saving ui state", "err", err)
			a.status = "could not save preferences"
		} else {
			a.status = ""
		}
		return a, a.chromeResized()
	}

	updated, cmd := a.feed.Update(msg)
	a.feed = updated
	return a, cmd
}

func (a App) quit() (tea.Model, tea.Cmd) {
	a.feed.Close()
	return a, tea.Quit
}

// chromeResized tells the feed how many rows the help bar takes.
func (a App) chromeResized() tea.Cmd {
	h := a.helpHeight()
	return func() tea.Msg { return common.ChromeResizedMsg{Height: h} }
}

func (a App) helpView() string {
	s := a.help.View(a.keys)
	if a.status != "" {
		s = lipgloss.JoinHorizontal(lipgloss.Top, s, "  ", common.ErrorStyle.Render(a.status))
	}
	return common.StatusBarStyle.Render(s)
}

func (a App) helpHeight() int { return lipgloss.Height(a.helpView()) }

// View renders the feed above the help bar.
func (a App) View() string {
	return a.feed.View() + "\n" + a.helpView()
}
