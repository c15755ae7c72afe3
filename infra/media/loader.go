// Package media turns a post's video into decoded frames and plays them
// back on a clock.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"
	"golang.org/x/sync/singleflight"

	"github.com/chillchill/chilltok/domain"
	"github.com/chillchill/chilltok/infra/logging"
)

const (
	// ClipFPS is the sampling rate of extracted video frames.
	ClipFPS = 4.0

	defaultMaxFrames  = 48
	defaultFrameWidth = 160
	defaultCacheSize  = 16
	maxImageBytes     = 4 * 1024 * 1024
)

// ErrNoSource is returned when a post has neither a video nor a thumbnail.
var ErrNoSource = errors.New("no media source")

// Extractor decodes a video URL into frames. The default shells out to
// ffmpeg.
type Extractor func(ctx context.Context, videoURL string, width, maxFrames int) ([]image.Image, error)

// Options configures a Loader.
type Options struct {
	Timeout    time.Duration
	MaxFrames  int
	FrameWidth int
	CacheSize  int
	Extractor  Extractor // nil uses ffmpeg when it is on PATH
	Logger     *log.Logger
	Client     *resty.Client // optional
}

// Loader resolves clips, caching decoded results and collapsing concurrent
// loads of the same source.
type Loader struct {
	http      *resty.Client
	extract   Extractor
	maxFrames int
	width     int
	log       *log.Logger

	cache *lru.Cache[string, domain.Clip]
	group singleflight.Group
}

// NewLoader creates a Loader.
func NewLoader(opts Options) (*Loader, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, domain.Clip](size)
	if err != nil {
		return nil, fmt.Errorf("frame cache: %w", err)
	}
	client := opts.Client
	if client == nil {
		client = resty.New()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	client.SetTimeout(timeout)

	l := &Loader{
		http:      client,
		extract:   opts.Extractor,
		maxFrames: opts.MaxFrames,
		width:     opts.FrameWidth,
		log:       opts.Logger,
		cache:     cache,
	}
	if l.maxFrames <= 0 {
		l.maxFrames = defaultMaxFrames
	}
	if l.width <= 0 {
		l.width = defaultFrameWidth
	}
	if l.log == nil {
		l.log = logging.Discard()
	}
	if l.extract == nil && hasFFmpeg() {
		l.extract = ffmpegExtract(timeout)
	}
	return l, nil
}

// LoadClip returns the frames for a post. Video extraction is tried first;
// when it is unavailable or fails the thumbnail becomes a one-frame clip.
func (l *Loader) LoadClip(ctx context.Context, videoURL, thumbnailURL string) (domain.Clip, error) {
	videoURL = strings.TrimSpace(videoURL)
	thumbnailURL = strings.TrimSpace(thumbnailURL)
	if videoURL == "" && thumbnailURL == "" {
		return domain.Clip{}, ErrNoSource
	}
	key := videoURL + "|" + thumbnailURL
	if clip, ok := l.cache.Get(key); ok {
		return clip, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		clip, err := l.load(ctx, videoURL, thumbnailURL)
		if err != nil {
			return domain.Clip{}, err
		}
		l.cache.Add(key, clip)
		return clip, nil
	})
	if err != nil {
		return domain.Clip{}, err
	}
	return v.(domain.Clip), nil
}

// Cached reports whether a clip for the source pair is already decoded.
func (l *Loader) Cached(videoURL, thumbnailURL string) bool {
	return l.cache.Contains(strings.TrimSpace(videoURL) + "|" + strings.TrimSpace(thumbnailURL))
}

func (l *Loader) load(ctx context.Context, videoURL, thumbnailURL string) (domain.Clip, error) {
	var videoErr error
	if videoURL != "" && l.extract != nil {
		frames, err := l.extract(ctx, videoURL, l.width, l.maxFrames)
		if err == nil && len(frames) > 0 {
			l.log.Debug("clip extracted", "url", videoURL, "frames", len(frames))
			return domain.Clip{Frames: frames, FPS: ClipFPS}, nil
		}
		videoErr = err
		l.log.Debug("clip extraction failed", "url", videoURL, "err", err)
	}
	if ctx.Err() != nil {
		return domain.Clip{}, ctx.Err()
	}

	src := thumbnailURL
	if src == "" {
		src = videoURL
	}
	frames, err := l.fetchImage(ctx, src)
	if err != nil {
		if videoErr != nil {
			return domain.Clip{}, fmt.Errorf("load clip: %w", errors.Join(videoErr, err))
		}
		return domain.Clip{}, fmt.Errorf("load clip: %w", err)
	}
	fps := 0.0
	if len(frames) > 1 {
		fps = ClipFPS
	}
	return domain.Clip{Frames: frames, FPS: fps}, nil
}

func (l *Loader) fetchImage(ctx context.Context, url string) ([]image.Image, error) {
	resp, err := l.http.R().SetContext(ctx).SetDoNotParseResponse(true).Get(url)
	if err != nil {
		return nil, err
	}
	body := resp.RawBody()
	defer body.Close()
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("media status %d", resp.StatusCode())
	}
	data, err := readLimited(body, maxImageBytes)
	if err != nil {
		return nil, err
	}
	if frames, err := decodeGIF(data, l.maxFrames); err == nil && len(frames) > 1 {
		return frames, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return []image.Image{img}, nil
}

// decodeGIF returns full frames. GIF frames after the first are usually
// patches over the previous picture, so each one is composited onto a
// running canvas, honouring its disposal method.
func decodeGIF(data []byte, maxFrames int) ([]image.Image, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, errors.New("gif has no frames")
	}
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	canvas := image.NewRGBA(bounds)
	n := min(len(g.Image), maxFrames)
	frames := make([]image.Image, 0, n)
	for i := range n {
		frame := g.Image[i]
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		var previous *image.RGBA
		if disposal == gif.DisposalPrevious {
			previous = cloneRGBA(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		frames = append(frames, cloneRGBA(canvas))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}
	return frames, nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}

var (
	ffmpegCheckOnce sync.Once
	ffmpegAvailable bool
)

func hasFFmpeg() bool {
	ffmpegCheckOnce.Do(func() {
		_, err := exec.LookPath("ffmpeg")
		ffmpegAvailable = err == nil
	})
	return ffmpegAvailable
}

func ffmpegExtract(timeout time.Duration) Extractor {
	return func(ctx context.Context, videoURL string, width, maxFrames int) ([]image.Image, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		filter := fmt.Sprintf("fps=%g,scale=%d:-2:flags=lanczos", ClipFPS, max(width, 16))
		cmd := exec.CommandContext(
			ctx,
			"ffmpeg",
			"-hide_banner",
			"-loglevel", "error",
			"-i", videoURL,
			"-vf", filter,
			"-frames:v", fmt.Sprintf("%d", maxFrames),
			"-f", "gif",
			"-",
		)
		data, err := cmd.Output()
		if err != nil {
			return nil, fmt.Errorf("ffmpeg: %w", err)
		}
		return decodeGIF(data, maxFrames)
	}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("media larger than %d bytes", limit)
	}
	return data, nil
}
