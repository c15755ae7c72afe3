package motion

// DeltaMode is the unit of a wheel delta.
type DeltaMode int

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

// WheelEvent is one wheel notch or trackpad scroll. Positive DeltaY scrolls
// toward the next item.
type WheelEvent struct {
	DeltaY float64
	Mode   DeltaMode
	OptOut bool // target is an interactive control
}

type TouchPhase int

const (
	TouchStart TouchPhase = iota
	TouchMove
	TouchEnd
)

// TouchEvent is one step of a touch (or pointer drag) lifecycle.
type TouchEvent struct {
	Phase  TouchPhase
	Y      float64
	OptOut bool
}

// KeyEvent is a key press by name ("down", "pgup", "j", ...).
type KeyEvent struct {
	Key      string
	Editable bool // focus is in a text input
	OptOut   bool
}

type SignalKind int

const (
	SignalNone SignalKind = iota
	SignalAdvance
	SignalDrag
	SignalRelease
)

// Signal is the recognizer's output.
type Signal struct {
	Kind   SignalKind
	Dir    int     // SignalAdvance: +1 next, -1 previous
	Offset float64 // SignalDrag: preview displacement
}

func advance(dir int) Signal  { return Signal{Kind: SignalAdvance, Dir: dir} }
func drag(off float64) Signal { return Signal{Kind: SignalDrag, Offset: off} }

var (
	none    = Signal{}
	release = Signal{Kind: SignalRelease}
)
