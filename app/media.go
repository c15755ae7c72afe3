package app

import (
	"context"

	"github.com/chillchill/chilltok/domain"
)

// MediaService turns a post's video into playable frames.
// Implemented by infrastructure (ffmpeg extraction with a thumbnail fallback).
type MediaService interface {
	LoadClip(ctx context.Context, videoURL, thumbnailURL string) (domain.Clip, error)
}

// NetworkProbe estimates link speed once per session and returns the
// preload lookahead tier (0, 1 or 2).
type NetworkProbe interface {
	Measure(ctx context.Context) int
}
