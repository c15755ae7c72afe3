package feed

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chillchill/chilltok/app"
	"github.com/chillchill/chilltok/domain"
	"github.com/chillchill/chilltok/tui/common"
)

// fetchFeedPage runs one page request. It is the only place that tells our
// own cancellation apart from a real failure.
func fetchFeedPage(ctx context.Context, svc app.FeedService, q domain.FeedQuery, seq int, mode fetchMode) tea.Cmd {
	return func() tea.Msg {
		page, err := svc.FetchFeed(ctx, q)
		if errors.Is(ctx.Err(), context.Canceled) {
			return pageAbortedMsg{Seq: seq}
		}
		if err != nil {
			return PageErrorMsg{Seq: seq, Mode: mode, Err: err}
		}
		return PageLoadedMsg{Seq: seq, Mode: mode, Page: page}
	}
}

func (m Model) measureTier() tea.Cmd {
	probe := m.probe
	if probe == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		return tierMeasuredMsg{Tier: probe.Measure(ctx)}
	}
}

func (m Model) frameTick() tea.Cmd {
	gen := m.playback.tickGen
	return m.after(frameInterval, func(time.Time) tea.Msg {
		return frameTickMsg{Gen: gen}
	})
}

func (m Model) snapAfter(gen uint64, d time.Duration) tea.Cmd {
	return m.after(d, func(t time.Time) tea.Msg {
		return snapDoneMsg{Gen: gen, At: t}
	})
}

func (m Model) loadClip(index int, post domain.Post) tea.Cmd {
	svc := m.media
	epoch := m.source.epoch
	return func() tea.Msg {
		clip, err := svc.LoadClip(context.Background(), post.VideoURL, post.ThumbnailURL)
		return clipLoadedMsg{Epoch: epoch, Index: index, PostID: post.ID, Clip: clip, Err: err}
	}
}

// recordView reports watch time for a post, rounded to a tenth of a
// second. Short views are not reported.
func (m Model) recordView(postID string, seconds float64) tea.Cmd {
	seconds = math.Round(seconds*10) / 10
	if m.feed == nil || postID == "" || seconds < viewRecordMin {
		return nil
	}
	svc := m.feed
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), viewRecordTimeout)
		defer cancel()
		err := svc.RecordView(ctx, postID, seconds)
		return viewRecordedMsg{PostID: postID, Seconds: seconds, Err: err}
	}
}

func (m Model) lookupPost(id string) tea.Cmd {
	svc := m.feed
	id = strings.TrimSpace(id)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		post, err := svc.FetchPost(ctx, id)
		return PostLoadedMsg{ID: id, Post: post, Err: err}
	}
}

func (m Model) emitPrefsChanged() tea.Cmd {
	algo := m.source.algo
	muted := m.playback.store.Muted.Get()
	return func() tea.Msg {
		return common.PrefsChangedMsg{Algo: algo, Muted: muted}
	}
}
