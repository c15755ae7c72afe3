package common

import "github.com/chillchill/chilltok/domain"

// ChromeResizedMsg reports that UI chrome around the feed changed height
// (in rows). The feed recomputes its viewport on it.
type ChromeResizedMsg struct {
	Height int
}

// PrefsChangedMsg is emitted when a persisted preference changes.
type PrefsChangedMsg struct {
	Algo  domain.Algo
	Muted bool
}
