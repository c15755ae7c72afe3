package card

import (
	"image"

	"github.com/chillchill/chilltok/domain"
)

// Player is a seekable video surface. media.FramePlayer implements it.
type Player interface {
	Load(clip domain.Clip)
	Ready() bool
	Play()
	Pause()
	Paused() bool
	Seek(sec float64)
	CurrentTime() float64
	Duration() float64
	SetMuted(muted bool)
	Muted() bool
	Frame() image.Image
}
