package feed

import (
	"context"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chillchill/chilltok/domain"
)

// stubMedia returns a one-frame clip, or err, and counts loads per video.
type stubMedia struct {
	mu    sync.Mutex
	err   error
	loads map[string]int
}

func (s *stubMedia) LoadClip(_ context.Context, videoURL, _ string) (domain.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loads == nil {
		s.loads = make(map[string]int)
	}
	s.loads[videoURL]++
	if s.err != nil {
		return domain.Clip{}, s.err
	}
	return domain.Clip{Frames: []image.Image{image.NewRGBA(image.Rect(0, 0, 8, 8))}}, nil
}

func (s *stubMedia) count(videoURL string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads[videoURL]
}

type recordedView struct {
	id      string
	seconds float64
}

// stubFeed serves pages keyed by "algo|cursor".
type stubFeed struct {
	mu      sync.Mutex
	pages   map[string]domain.FeedPage
	err     error
	queries []domain.FeedQuery
	views   []recordedView
	post    domain.Post
	postErr error
}

func newStubFeed() *stubFeed {
	return &stubFeed{pages: make(map[string]domain.FeedPage)}
}

func (s *stubFeed) set(algo domain.Algo, cursor string, page domain.FeedPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[string(algo)+"|"+cursor] = page
}

func (s *stubFeed) FetchFeed(ctx context.Context, q domain.FeedQuery) (domain.FeedPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	if err := ctx.Err(); err != nil {
		return domain.FeedPage{}, err
	}
	if s.err != nil {
		return domain.FeedPage{}, s.err
	}
	page, ok := s.pages[string(q.Algo)+"|"+q.Cursor]
	if !ok {
		return domain.FeedPage{}, fmt.Errorf("no page for %s|%s", q.Algo, q.Cursor)
	}
	return page, nil
}

func (s *stubFeed) FetchPost(context.Context, string) (domain.Post, error) {
	return s.post, s.postErr
}

func (s *stubFeed) RecordView(_ context.Context, id string, seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, recordedView{id: id, seconds: seconds})
	return nil
}

func (s *stubFeed) cursors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.queries))
	for _, q := range s.queries {
		out = append(out, q.Cursor)
	}
	return out
}

// stubViewport reports rows x 16px.
type stubViewport struct {
	rows int
}

func (s *stubViewport) SetSize(rows int)                { s.rows = rows }
func (s *stubViewport) DynamicHeight() (float64, bool) { return 0, false }
func (s *stubViewport) VisualHeight() (float64, bool)  { return float64(s.rows) * 16, s.rows > 0 }
func (s *stubViewport) InnerHeight() float64           { return 24 * 16 }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func makePosts(prefix string, n int) []domain.Post {
	out := make([]domain.Post, n)
	for i := range out {
		id := fmt.Sprintf("%s%d", prefix, i)
		out[i] = domain.Post{
			ID:       id,
			Author:   domain.Author{ID: "u" + id, Username: "user" + id},
			Caption:  "caption " + id,
			VideoURL: "https://cdn.test/" + id + ".mp4",
		}
	}
	return out
}

func page(items []domain.Post, next string, hasMore bool) domain.FeedPage {
	p := domain.FeedPage{Items: items, Paging: domain.Paging{HasMore: hasMore}}
	if next != "" {
		p.Paging.NextCursor = &next
	}
	return p
}

func newTestModel(t *testing.T, svc *stubFeed) (Model, *fakeClock) {
	t.Helper()
	return newTestModelWithMedia(t, svc, &stubMedia{})
}

func newTestModelWithMedia(t *testing.T, svc *stubFeed, media *stubMedia) (Model, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := New(Deps{
		Feed:       svc,
		Media:      media,
		CellHeight: 16,
		Viewport:   &stubViewport{rows: 51},
		Now:        clock.now,
	})
	m.after = func(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 51})
	return m, clock
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// drive feeds every message produced by cmd back into the model until no
// commands remain.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		var next tea.Cmd
		m, next = m.Update(msg)
		m = drive(t, m, next)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// swipe presses j and completes the snap on the fake clock.
func swipe(t *testing.T, m Model, clock *fakeClock) Model {
	t.Helper()
	var cmd tea.Cmd
	m, cmd = m.Update(keyRunes("j"))
	m = drive(t, m, cmd)
	clock.advance(320 * time.Millisecond)
	m, cmd = m.Update(snapDoneMsg{Gen: m.nav.Generation(), At: clock.now()})
	return drive(t, m, cmd)
}

// loaded returns a model whose first page has been applied.
func loaded(t *testing.T, svc *stubFeed) (Model, *fakeClock) {
	t.Helper()
	m, clock := newTestModel(t, svc)
	m = drive(t, m, m.init)
	if m.Loading() {
		t.Fatalf("expected first page to settle")
	}
	return m, clock
}
