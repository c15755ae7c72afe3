package app

import (
	"context"

	"github.com/chillchill/chilltok/domain"
)

// FeedService reads the short-video feed from the backend.
type FeedService interface {
	// FetchFeed returns one page of the feed. Cancelling ctx aborts the request.
	FetchFeed(ctx context.Context, q domain.FeedQuery) (domain.FeedPage, error)

	// FetchPost returns a single post. Missing and private posts surface as
	// domain.ErrNotFound and domain.ErrForbidden.
	FetchPost(ctx context.Context, id string) (domain.Post, error)

	// RecordView reports how long the viewer watched a post.
	RecordView(ctx context.Context, id string, watchSeconds float64) error
}
