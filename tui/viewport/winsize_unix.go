//go:build unix

package viewport

import "golang.org/x/sys/unix"

func queryWinsize(fd int) (winsize, bool) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return winsize{}, false
	}
	return winsize{Rows: int(ws.Row), Cols: int(ws.Col), YPixel: int(ws.Ypixel)}, true
}
