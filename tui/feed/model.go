package feed

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/chillchill/chilltok/app"
	"github.com/chillchill/chilltok/domain"
	"github.com/chillchill/chilltok/infra/logging"
	"github.com/chillchill/chilltok/infra/media"
	"github.com/chillchill/chilltok/tui/card"
	"github.com/chillchill/chilltok/tui/common"
	"github.com/chillchill/chilltok/tui/motion"
	"github.com/chillchill/chilltok/tui/viewport"
)

// Deps holds what the feed needs. Feed is required; everything else has a
// usable default.
type Deps struct {
	Feed         app.FeedService
	Media        app.MediaService
	Probe        app.NetworkProbe
	Store        *common.Store
	Motion       motion.Config
	Algo         domain.Algo
	Limit        int
	CellHeight   float64
	AmbientEvery time.Duration
	Viewport     viewport.Source
	NewPlayer    func() card.Player
	Now          func() time.Time
	Logger       *log.Logger
}

type services struct {
	feed      app.FeedService
	media     app.MediaService
	probe     app.NetworkProbe
	newPlayer func() card.Player
	now       func() time.Time
	after     func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
	log       *log.Logger
}

type layout struct {
	width      int
	rows       int // total terminal rows
	chromeRows int // rows owned by the parent below the feed
	cellHeight float64
	src        viewport.Source
	tracker    *viewport.Tracker
}

type playback struct {
	store        *common.Store
	ambientEvery time.Duration
	cards        map[int]*card.Card
	clipLoading  map[int]bool
	clipFailed   map[int]bool // per epoch; not retried until the next reset
	tickGen      uint64
}

type prompt struct {
	open    bool
	input   textinput.Model
	looking bool
	overlay *domain.Post
	err     error
}

// Model is the swipeable video feed.
type Model struct {
	services
	source   sourceState
	nav      *motion.Navigator
	gestures *motion.Recognizer
	guard    prefetchGuard
	tier     int
	measured bool
	layout
	playback
	prompt

	keys    common.KeyMap
	spinner spinner.Model
	init    tea.Cmd
}

// New creates a feed model. The first page request is prepared here and
// issued from Init.
func New(deps Deps) Model {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	store := deps.Store
	if store == nil {
		store = common.NewStore(true)
	}
	newPlayer := deps.NewPlayer
	if newPlayer == nil {
		newPlayer = func() card.Player { return media.NewFramePlayer(now) }
	}
	limit := deps.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	algo := deps.Algo
	if algo == "" {
		algo = domain.AlgoForYou
	}
	cfg := deps.Motion
	if cfg == (motion.Config{}) {
		cfg = motion.DefaultConfig()
	}
	cell := deps.CellHeight
	if cell <= 0 {
		cell = cfg.LineHeight
	}
	src := deps.Viewport
	if src == nil {
		src = viewport.NewTerminalSource(cell)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = common.StatusBarStyle

	ti := textinput.New()
	ti.Prompt = "post id: "
	ti.Placeholder = "e.g. 01J9..."
	ti.CharLimit = 64
	ti.Width = 32

	m := Model{
		services: services{
			feed:      deps.Feed,
			media:     deps.Media,
			probe:     deps.Probe,
			newPlayer: newPlayer,
			now:       now,
			after:     tea.Tick,
			log:       logger,
		},
		source:   sourceState{algo: algo, limit: limit},
		nav:      motion.NewNavigator(cfg.SnapDuration, now),
		gestures: motion.NewRecognizer(cfg, now),
		guard:    newPrefetchGuard(),
		layout: layout{
			cellHeight: cell,
			src:        src,
			tracker:    viewport.NewTracker(src),
		},
		playback: playback{
			store:        store,
			ambientEvery: deps.AmbientEvery,
			cards:        make(map[int]*card.Card),
			clipLoading:  make(map[int]bool),
			clipFailed:   make(map[int]bool),
		},
		prompt:  prompt{input: ti},
		keys:    common.DefaultKeyMap(),
		spinner: sp,
	}
	m.recomputeViewport()
	m.init = m.startFetch(fetchReset)
	return m
}

// Init issues the first page request, the network probe and the playback
// clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.init, m.measureTier(), m.spinner.Tick, m.frameTick())
}

// Update handles messages for the feed.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m.update(msg)
}

// Close cancels the in-flight request and stops every pending timer.
func (m *Model) Close() {
	m.abortFetch()
	m.source.reqSeq++
	m.source.loading = false
	m.playback.tickGen++
	m.nav.Reset()
	m.dropCards()
}

// Algo returns the current feed algorithm.
func (m Model) Algo() domain.Algo { return m.source.algo }

// Items returns the loaded posts.
func (m Model) Items() []domain.Post { return m.source.items }

// Index returns the active item index.
func (m Model) Index() int { return m.nav.Index() }

// Loading reports whether a page request is in flight.
func (m Model) Loading() bool { return m.source.loading }

// Err returns the last fetch failure, cleared by the next success.
func (m Model) Err() error { return m.source.err }

// Editing reports whether a text input has focus.
func (m Model) Editing() bool { return m.prompt.open }

// FeedHeight is the usable height in pixel-equivalents.
func (m Model) FeedHeight() float64 { return m.layout.tracker.Height() }
