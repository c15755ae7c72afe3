package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillchill/chilltok/domain"
)

const feedPayload = `{
  "algo": "for-you",
  "items": [{
    "id": "p1",
    "author": {"id": "u1", "username": "mia", "displayName": "Mia \u001b[31mK"},
    "caption": "sunset\nvibes",
    "music": "lofi - rain",
    "reactionCounts": {"LIKE": 4, "love": 2},
    "commentCount": 3,
    "saveCount": 1,
    "thumbnailUrl": "https://cdn.example/p1.jpg",
    "tags": ["#beach", " ", "summer"],
    "videoUrl": "https://cdn.example/p1.mp4",
    "viewerReaction": "like",
    "viewerSaved": true
  }],
  "paging": {"nextCursor": "c1", "hasMore": true}
}`

func TestFeedService_FetchFeed_RequestShapeAndMapping(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		require.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(feedPayload))
	}))
	svc := NewFeedService(c)

	page, err := svc.FetchFeed(context.Background(), domain.FeedQuery{Algo: domain.AlgoForYou, Limit: 8})
	require.NoError(t, err)
	assert.Equal(t, "/feed", gotPath)
	assert.Equal(t, "for-you", gotQuery.Get("algo"))
	assert.Equal(t, "8", gotQuery.Get("limit"))
	assert.False(t, gotQuery.Has("cursor"), "first page must not send a cursor")

	require.Len(t, page.Items, 1)
	p := page.Items[0]
	assert.Equal(t, "Mia K", p.Author.DisplayName)
	assert.Equal(t, "sunset vibes", p.Caption)
	assert.Equal(t, []string{"beach", "summer"}, p.Tags)
	assert.Equal(t, 6, p.TotalReactions())
	assert.Equal(t, 4, p.Reactions[domain.ReactionLike])
	require.NotNil(t, p.ViewerReaction)
	assert.Equal(t, domain.ReactionLike, *p.ViewerReaction)
	assert.True(t, p.Saved())
	require.NotNil(t, page.Paging.NextCursor)
	assert.Equal(t, "c1", *page.Paging.NextCursor)
	assert.True(t, page.Paging.HasMore)
}

func TestFeedService_FetchFeed_SendsCursorAndNullPaging(t *testing.T) {
	var gotCursor string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCursor = r.URL.Query().Get("cursor")
		_, _ = w.Write([]byte(`{"algo":"following","items":[],"paging":{"nextCursor":null,"hasMore":false}}`))
	}))
	svc := NewFeedService(c)

	page, err := svc.FetchFeed(context.Background(), domain.FeedQuery{Algo: domain.AlgoFollowing, Limit: 8, Cursor: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", gotCursor)
	assert.Equal(t, domain.AlgoFollowing, page.Algo)
	assert.Nil(t, page.Paging.NextCursor)
	assert.False(t, page.Paging.HasMore)
}

func TestFeedService_FetchPost_DistinguishesStatuses(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/feed/private":
			w.WriteHeader(http.StatusForbidden)
		case "/feed/p1":
			_, _ = w.Write([]byte(`{"item":{"id":"p1","caption":"hi"}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	svc := NewFeedService(c)

	_, err := svc.FetchPost(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.FetchPost(context.Background(), "private")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.FetchPost(context.Background(), "boom")
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))

	p, err := svc.FetchPost(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "hi", p.Caption)
}

func TestFeedService_RecordView_PostsWatchTime(t *testing.T) {
	var body, path, ctype string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		ctype = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.WriteHeader(http.StatusNoContent)
	}))
	svc := NewFeedService(c)

	require.NoError(t, svc.RecordView(context.Background(), "p 1", 4.5))
	assert.Equal(t, "/feed/p 1/views", path)
	assert.Contains(t, ctype, "application/json")
	assert.JSONEq(t, `{"watchTimeSeconds":4.5}`, body)
}
