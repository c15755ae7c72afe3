package feed

import (
	"context"
	"time"

	"github.com/chillchill/chilltok/domain"
)

const (
	defaultLimit      = 8
	frameInterval     = 125 * time.Millisecond
	wheelLinesNotch   = 3 // lines per wheel notch
	headerRows        = 1
	viewRecordMin     = 1.0 // seconds
	viewRecordTimeout = 5 * time.Second
	lookupTimeout     = 10 * time.Second
	probeTimeout      = 10 * time.Second
)

type fetchMode int

const (
	fetchReset fetchMode = iota
	fetchAppend
)

func (f fetchMode) String() string {
	if f == fetchAppend {
		return "append"
	}
	return "reset"
}

// PageLoadedMsg is sent when a feed page arrives.
type PageLoadedMsg struct {
	Seq  int
	Mode fetchMode
	Page domain.FeedPage
}

// PageErrorMsg is sent when a feed page request fails.
type PageErrorMsg struct {
	Seq  int
	Mode fetchMode
	Err  error
}

// pageAbortedMsg reports a request we cancelled ourselves.
type pageAbortedMsg struct {
	Seq int
}

// PostLoadedMsg is sent when a post looked up by id arrives.
type PostLoadedMsg struct {
	ID   string
	Post domain.Post
	Err  error
}

type tierMeasuredMsg struct {
	Tier int
}

type snapDoneMsg struct {
	Gen uint64
	At  time.Time
}

type frameTickMsg struct {
	Gen uint64
}

type clipLoadedMsg struct {
	Epoch  int
	Index  int
	PostID string
	Clip   domain.Clip
	Err    error
}

type viewRecordedMsg struct {
	PostID  string
	Seconds float64
	Err     error
}

// sourceState is the cursor pager.
type sourceState struct {
	algo       domain.Algo
	limit      int
	items      []domain.Post
	nextCursor string
	hasMore    bool
	loading    bool
	mode       fetchMode
	err        error
	reqSeq     int
	cancel     context.CancelFunc
	epoch      int // bumped on every reset
}
