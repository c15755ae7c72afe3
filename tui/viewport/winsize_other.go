//go:build !unix

package viewport

func queryWinsize(int) (winsize, bool) {
	return winsize{}, false
}
