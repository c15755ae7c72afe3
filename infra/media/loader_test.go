package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, c)
		}
	}
	return img
}

func pngServer(t *testing.T, hits *int64) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(color.RGBA{R: 200, A: 255})))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		if r.URL.Path != "/thumb.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadClip_UsesExtractorFrames(t *testing.T) {
	frames := []image.Image{solid(color.White), solid(color.Black), solid(color.White)}
	var calls int64
	l, err := NewLoader(Options{Extractor: func(_ context.Context, url string, width, maxFrames int) ([]image.Image, error) {
		atomic.AddInt64(&calls, 1)
		assert.Equal(t, "https://cdn.test/v.mp4", url)
		assert.Equal(t, defaultFrameWidth, width)
		assert.Equal(t, defaultMaxFrames, maxFrames)
		return frames, nil
	}})
	require.NoError(t, err)

	clip, err := l.LoadClip(context.Background(), "https://cdn.test/v.mp4", "")
	require.NoError(t, err)
	assert.Len(t, clip.Frames, 3)
	assert.Equal(t, ClipFPS, clip.FPS)
	assert.True(t, l.Cached("https://cdn.test/v.mp4", ""))

	_, err = l.LoadClip(context.Background(), "https://cdn.test/v.mp4", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls), "second load should hit the cache")
}

func TestLoadClip_FallsBackToThumbnail(t *testing.T) {
	var hits int64
	srv := pngServer(t, &hits)
	l, err := NewLoader(Options{Extractor: func(context.Context, string, int, int) ([]image.Image, error) {
		return nil, errors.New("no decoder")
	}})
	require.NoError(t, err)

	clip, err := l.LoadClip(context.Background(), srv.URL+"/v.mp4", srv.URL+"/thumb.png")
	require.NoError(t, err)
	require.Len(t, clip.Frames, 1)
	assert.Zero(t, clip.FPS)
	r, _, _, _ := clip.Frames[0].At(1, 1).RGBA()
	assert.Greater(t, r, uint32(0))
}

func TestLoadClip_Errors(t *testing.T) {
	var hits int64
	srv := pngServer(t, &hits)
	l, err := NewLoader(Options{Extractor: func(context.Context, string, int, int) ([]image.Image, error) {
		return nil, errors.New("no decoder")
	}})
	require.NoError(t, err)

	_, err = l.LoadClip(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = l.LoadClip(context.Background(), srv.URL+"/v.mp4", srv.URL+"/missing.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "media status 404")
	assert.False(t, l.Cached(srv.URL+"/v.mp4", srv.URL+"/missing.png"))
}

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// deltaGIF is a 10x10 red frame followed by a 2x2 blue patch at (4,4),
// then a 1x1 patch at the origin.
func deltaGIF(t *testing.T, patchDisposal byte) []byte {
	t.Helper()
	palette := color.Palette{red, blue, color.Transparent}
	base := image.NewPaletted(image.Rect(0, 0, 10, 10), palette)
	for i := range base.Pix {
		base.Pix[i] = 0
	}
	patch := image.NewPaletted(image.Rect(4, 4, 6, 6), palette)
	for i := range patch.Pix {
		patch.Pix[i] = 1
	}
	dot := image.NewPaletted(image.Rect(0, 0, 1, 1), palette)
	dot.Pix[0] = 1

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, &gif.GIF{
		Image:    []*image.Paletted{base, patch, dot},
		Delay:    []int{25, 25, 25},
		Disposal: []byte{gif.DisposalNone, patchDisposal, gif.DisposalNone},
		Config:   image.Config{ColorModel: palette, Width: 10, Height: 10},
	}))
	return buf.Bytes()
}

func sameColor(t *testing.T, want color.Color, got color.Color) {
	t.Helper()
	wr, wg, wb, wa := want.RGBA()
	gr, gg, gb, ga := got.RGBA()
	assert.Equal(t, [4]uint32{wr, wg, wb, wa}, [4]uint32{gr, gg, gb, ga})
}

func TestDecodeGIF_CompositesPartialFrames(t *testing.T) {
	frames, err := decodeGIF(deltaGIF(t, gif.DisposalNone), defaultMaxFrames)
	require.NoError(t, err)
	require.Len(t, frames, 3)

	for i, f := range frames {
		assert.Equal(t, image.Rect(0, 0, 10, 10), f.Bounds(), "frame %d must cover the canvas", i)
	}
	sameColor(t, red, frames[1].At(0, 0))
	sameColor(t, blue, frames[1].At(4, 4))
	sameColor(t, blue, frames[2].At(5, 5))
	sameColor(t, blue, frames[2].At(0, 0))
	sameColor(t, red, frames[0].At(4, 4))
}

func TestDecodeGIF_HonoursDisposal(t *testing.T) {
	frames, err := decodeGIF(deltaGIF(t, gif.DisposalBackground), defaultMaxFrames)
	require.NoError(t, err)
	sameColor(t, blue, frames[1].At(4, 4))
	_, _, _, a := frames[2].At(4, 4).RGBA()
	assert.Zero(t, a, "background disposal clears the patch area")
	sameColor(t, red, frames[2].At(7, 7))

	frames, err = decodeGIF(deltaGIF(t, gif.DisposalPrevious), defaultMaxFrames)
	require.NoError(t, err)
	sameColor(t, red, frames[2].At(4, 4))
}

func TestLoadClip_AnimatedThumbnailHasFullFrames(t *testing.T) {
	data := deltaGIF(t, gif.DisposalNone)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)

	l, err := NewLoader(Options{Extractor: func(context.Context, string, int, int) ([]image.Image, error) {
		return nil, errors.New("no decoder")
	}})
	require.NoError(t, err)

	clip, err := l.LoadClip(context.Background(), "", srv.URL+"/thumb.gif")
	require.NoError(t, err)
	require.Len(t, clip.Frames, 3)
	assert.Equal(t, ClipFPS, clip.FPS)
	assert.Equal(t, image.Rect(0, 0, 10, 10), clip.Frames[1].Bounds())
	sameColor(t, blue, clip.Frames[1].At(4, 4))
	sameColor(t, red, clip.Frames[1].At(9, 9))
}
