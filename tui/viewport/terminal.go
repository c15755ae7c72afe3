package viewport

import (
	"os"

	"golang.org/x/term"
)

const fallbackRows = 24

// winsize is the terminal geometry in cells and pixels. Pixel fields are
// zero when the terminal does not report them.
type winsize struct {
	Rows   int
	Cols   int
	YPixel int
}

// TerminalSource adapts the controlling terminal to Source. Rows come from
// tea.WindowSizeMsg via SetSize; pixel geometry is queried from the tty.
type TerminalSource struct {
	cellHeight float64
	rows       int
	query      func() (winsize, bool)
}

// NewTerminalSource creates a source for stdout. cellHeight is the assumed
// pixel height of one row when the terminal does not report pixels.
func NewTerminalSource(cellHeight float64) *TerminalSource {
	if cellHeight <= 0 {
		cellHeight = 16
	}
	fd := int(os.Stdout.Fd())
	return &TerminalSource{
		cellHeight: cellHeight,
		query:      func() (winsize, bool) { return queryWinsize(fd) },
	}
}

// SetSize records the row count from the latest resize.
func (s *TerminalSource) SetSize(rows int) {
	s.rows = max(rows, 0)
}

// Rows returns the last known row count.
func (s *TerminalSource) Rows() int { return s.rows }

// CellHeight is the pixel height of one row: measured when the terminal
// reports pixels, otherwise the configured value.
func (s *TerminalSource) CellHeight() float64 {
	if ws, ok := s.query(); ok && ws.YPixel > 0 && ws.Rows > 0 {
		return float64(ws.YPixel) / float64(ws.Rows)
	}
	return s.cellHeight
}

func (s *TerminalSource) DynamicHeight() (float64, bool) {
	ws, ok := s.query()
	if !ok || ws.YPixel <= 0 || ws.Rows <= 0 {
		return 0, false
	}
	if s.rows > 0 && s.rows != ws.Rows {
		// tty already resized again; scale to the rows the UI is drawing
		return float64(ws.YPixel) / float64(ws.Rows) * float64(s.rows), true
	}
	return float64(ws.YPixel), true
}

func (s *TerminalSource) VisualHeight() (float64, bool) {
	if s.rows <= 0 {
		return 0, false
	}
	return float64(s.rows) * s.cellHeight, true
}

func (s *TerminalSource) InnerHeight() float64 {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if _, h, err := term.GetSize(fd); err == nil && h > 0 {
			return float64(h) * s.cellHeight
		}
	}
	return fallbackRows * s.cellHeight
}
