package domain

import (
	"fmt"
	"image"
	"strings"
	"time"
)

// Algo selects which ranking the feed endpoint uses.
type Algo string

const (
	AlgoForYou    Algo = "for-you"
	AlgoFollowing Algo = "following"
)

// ParseAlgo accepts the wire name of a feed algorithm.
func ParseAlgo(s string) (Algo, error) {
	switch Algo(strings.ToLower(strings.TrimSpace(s))) {
	case AlgoForYou:
		return AlgoForYou, nil
	case AlgoFollowing:
		return AlgoFollowing, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAlgo, s)
	}
}

// ReactionType names one kind of reaction a viewer can leave on a post.
type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionHaha  ReactionType = "haha"
	ReactionWow   ReactionType = "wow"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

// Author is the summary of a post's creator embedded in feed items.
type Author struct {
	ID          string
	Username    string
	DisplayName string
	AvatarURL   string
}

// Name returns the display name, falling back to the username.
func (a Author) Name() string {
	if strings.TrimSpace(a.DisplayName) != "" {
		return a.DisplayName
	}
	return a.Username
}

// Post is a single short video in the feed.
type Post struct {
	ID             string
	Author         Author
	Caption        string
	Music          string
	Reactions      map[ReactionType]int
	CommentCount   int
	SaveCount      int
	ThumbnailURL   string
	Tags           []string
	VideoURL       string
	CreatedAt      time.Time
	ViewerReaction *ReactionType // nil when the viewer has not reacted
	ViewerSaved    *bool         // nil when the backend did not say
}

// TotalReactions sums every reaction type.
func (p Post) TotalReactions() int {
	total := 0
	for _, n := range p.Reactions {
		total += n
	}
	return total
}

// Saved reports whether the viewer saved the post.
func (p Post) Saved() bool {
	return p.ViewerSaved != nil && *p.ViewerSaved
}

// FeedQuery is one request against the feed endpoint.
// Cursor is empty for the first page.
type FeedQuery struct {
	Algo   Algo
	Limit  int
	Cursor string
}

// Paging is the pagination block of a feed response.
type Paging struct {
	NextCursor *string
	HasMore    bool
}

// FeedPage is one page of the feed.
type FeedPage struct {
	Algo   Algo
	Items  []Post
	Paging Paging
}

// Clip is a decoded, playable rendition of a post's video.
type Clip struct {
	Frames []image.Image
	FPS    float64
}

// Duration returns the playback length in seconds.
func (c Clip) Duration() float64 {
	if c.FPS <= 0 || len(c.Frames) == 0 {
		return 0
	}
	return float64(len(c.Frames)) / c.FPS
}
