package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/sync/singleflight"

	"github.com/chillchill/chilltok/domain"
)

// feedService implements app.FeedService against the ChillChill API.
type feedService struct {
	client  *Client
	lookups singleflight.Group
}

// NewFeedService creates a FeedService backed by client.
func NewFeedService(client *Client) *feedService {
	return &feedService{client: client}
}

type authorDTO struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

type postDTO struct {
	ID             string         `json:"id"`
	Author         authorDTO      `json:"author"`
	Caption        string         `json:"caption"`
	Music          string         `json:"music"`
	ReactionCounts map[string]int `json:"reactionCounts"`
	CommentCount   int            `json:"commentCount"`
	SaveCount      int            `json:"saveCount"`
	ThumbnailURL   string         `json:"thumbnailUrl"`
	Tags           []string       `json:"tags"`
	VideoURL       string         `json:"videoUrl"`
	CreatedAt      string         `json:"createdAt"`
	ViewerReaction *string        `json:"viewerReaction"`
	ViewerSaved    *bool          `json:"viewerSaved"`
}

type pagingDTO struct {
	NextCursor *string `json:"nextCursor"`
	HasMore    bool    `json:"hasMore"`
}

type feedResponse struct {
	Algo   string    `json:"algo"`
	Items  []postDTO `json:"items"`
	Paging pagingDTO `json:"paging"`
}

type postResponse struct {
	Item postDTO `json:"item"`
}

type viewRequest struct {
	WatchTimeSeconds float64 `json:"watchTimeSeconds"`
}

func (s *feedService) FetchFeed(ctx context.Context, q domain.FeedQuery) (domain.FeedPage, error) {
	params := map[string]string{
		"algo":  string(q.Algo),
		"limit": strconv.Itoa(q.Limit),
	}
	if q.Cursor != "" {
		params["cursor"] = q.Cursor
	}

	data, err := s.client.Get(ctx, "/feed", params)
	if err != nil {
		return domain.FeedPage{}, fmt.Errorf("fetching feed: %w", err)
	}

	var resp feedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.FeedPage{}, fmt.Errorf("parsing feed: %w", err)
	}

	algo := q.Algo
	if resp.Algo != "" {
		if parsed, err := domain.ParseAlgo(resp.Algo); err == nil {
			algo = parsed
		}
	}
	items := make([]domain.Post, 0, len(resp.Items))
	for _, dto := range resp.Items {
		items = append(items, mapPost(dto))
	}
	return domain.FeedPage{
		Algo:  algo,
		Items: items,
		Paging: domain.Paging{
			NextCursor: resp.Paging.NextCursor,
			HasMore:    resp.Paging.HasMore,
		},
	}, nil
}

// FetchPost looks a post up by id. Concurrent lookups of the same id share
// one request, and therefore the first caller's context.
func (s *feedService) FetchPost(ctx context.Context, id string) (domain.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Post{}, fmt.Errorf("fetching post: %w", domain.ErrNotFound)
	}
	v, err, _ := s.lookups.Do(id, func() (any, error) {
		data, err := s.client.Get(ctx, "/feed/"+url.PathEscape(id), nil)
		if err != nil {
			return nil, err
		}
		var resp postResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("parsing post: %w", err)
		}
		return mapPost(resp.Item), nil
	})
	if err != nil {
		return domain.Post{}, fmt.Errorf("fetching post %s: %w", id, err)
	}
	return v.(domain.Post), nil
}

func (s *feedService) RecordView(ctx context.Context, id string, watchSeconds float64) error {
	path := "/feed/" + url.PathEscape(id) + "/views"
	if _, err := s.client.Post(ctx, path, viewRequest{WatchTimeSeconds: watchSeconds}); err != nil {
		return fmt.Errorf("recording view: %w", err)
	}
	return nil
}

func mapPost(dto postDTO) domain.Post {
	createdAt, _ := time.Parse(time.RFC3339, dto.CreatedAt)

	reactions := make(map[domain.ReactionType]int, len(dto.ReactionCounts))
	for k, n := range dto.ReactionCounts {
		reactions[domain.ReactionType(strings.ToLower(k))] = n
	}
	tags := make([]string, 0, len(dto.Tags))
	for _, t := range dto.Tags {
		t = sanitizeForTerminal(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		if t != "" {
			tags = append(tags, t)
		}
	}

	p := domain.Post{
		ID: dto.ID,
		Author: domain.Author{
			ID:          dto.Author.ID,
			Username:    sanitizeForTerminal(dto.Author.Username),
			DisplayName: sanitizeForTerminal(dto.Author.DisplayName),
			AvatarURL:   dto.Author.AvatarURL,
		},
		Caption:      sanitizeForTerminal(dto.Caption),
		Music:        sanitizeForTerminal(dto.Music),
		Reactions:    reactions,
		CommentCount: dto.CommentCount,
		SaveCount:    dto.SaveCount,
		ThumbnailURL: dto.ThumbnailURL,
		Tags:         tags,
		VideoURL:     dto.VideoURL,
		CreatedAt:    createdAt,
		ViewerSaved:  dto.ViewerSaved,
	}
	if dto.ViewerReaction != nil && *dto.ViewerReaction != "" {
		r := domain.ReactionType(strings.ToLower(*dto.ViewerReaction))
		p.ViewerReaction = &r
	}
	return p
}

// sanitizeForTerminal strips escape sequences and control characters from
// backend text. Not a security boundary, just keeps the screen intact.
func sanitizeForTerminal(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
