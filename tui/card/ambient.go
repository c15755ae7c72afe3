package card

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	"github.com/chillchill/chilltok/tui/common"
)

const (
	sampleWidth  = 32
	sampleStride = 4 // pixels
	minAlpha     = 16
	desaturate   = 0.35
	darken       = 0.55
)

var baseline, _ = colorful.Hex(common.Baseline)

// Sampler derives a muted background colour from video frames and
// remembers the last colour it produced.
type Sampler struct {
	last string
}

// Sample returns the ambient hex for img and whether it differs from the
// previous result. Failures report no change and keep the previous colour.
func (s *Sampler) Sample(img image.Image) (hex string, changed bool) {
	hex, err := AmbientHex(img)
	if err != nil || hex == s.last {
		return s.last, false
	}
	s.last = hex
	return hex, true
}

// Last is the most recent colour, "" before the first sample.
func (s *Sampler) Last() string { return s.last }

// AmbientHex averages a downscaled copy of img, then blends the average
// toward grey and toward the dark baseline.
func AmbientHex(img image.Image) (hex string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sample ambient: %v", r)
		}
	}()
	if img == nil {
		return "", fmt.Errorf("sample ambient: no frame")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return "", fmt.Errorf("sample ambient: empty frame")
	}

	h := max(1, int(math.Round(float64(sampleWidth)*float64(b.Dy())/float64(b.Dx()))))
	canvas := image.NewNRGBA(image.Rect(0, 0, sampleWidth, h))
	draw.ApproxBiLinear.Scale(canvas, canvas.Bounds(), img, b, draw.Src, nil)

	var r, g, bl, n float64
	for i := 0; i+3 < len(canvas.Pix); i += 4 * sampleStride {
		if canvas.Pix[i+3] < minAlpha {
			continue
		}
		r += float64(canvas.Pix[i])
		g += float64(canvas.Pix[i+1])
		bl += float64(canvas.Pix[i+2])
		n++
	}
	if n == 0 {
		return "", fmt.Errorf("sample ambient: frame is transparent")
	}

	avg := colorful.Color{R: r / n / 255, G: g / n / 255, B: bl / n / 255}
	lum := 0.2126*avg.R + 0.7152*avg.G + 0.0722*avg.B
	c := avg.BlendRgb(colorful.Color{R: lum, G: lum, B: lum}, desaturate)
	c = c.BlendRgb(baseline, darken)
	return c.Clamped().Hex(), nil
}
