// Package probe estimates link speed once per session and maps it to the
// feed's preload lookahead tier.
package probe

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"

	"github.com/chillchill/chilltok/infra/logging"
)

// Tier thresholds in megabits per second.
const (
	slowMbps = 2.0
	fastMbps = 5.0
)

// TierFor maps an effective throughput to a lookahead tier:
// below 2 Mbps -> 0, [2,5) -> 1, 5 and above -> 2.
func TierFor(mbps float64) int {
	switch {
	case mbps >= fastMbps:
		return 2
	case mbps >= slowMbps:
		return 1
	default:
		return 0
	}
}

// Options configures a Prober.
type Options struct {
	URL         string           // reference image
	ApproxBytes int64            // used when the body length is unknown
	Timeout     time.Duration    // whole-transfer timeout
	Now         func() time.Time // optional, tests inject a fake clock
	Logger      *log.Logger
	Client      *resty.Client // optional
}

// Prober downloads a reference image and times it. The first Measure call
// does the work; later calls return the same tier.
type Prober struct {
	http   *resty.Client
	url    string
	approx int64
	now    func() time.Time
	log    *log.Logger

	once sync.Once
	tier int
}

// New creates a Prober.
func New(opts Options) *Prober {
	client := opts.Client
	if client == nil {
		client = resty.New()
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Prober{
		http:   client,
		url:    opts.URL,
		approx: opts.ApproxBytes,
		now:    now,
		log:    logger,
	}
}

// Measure returns the session's lookahead tier. Failures yield 0.
func (p *Prober) Measure(ctx context.Context) int {
	p.once.Do(func() {
		p.tier = p.measure(ctx)
	})
	return p.tier
}

func (p *Prober) measure(ctx context.Context) int {
	if p.url == "" {
		p.log.Debug("network probe skipped, no reference url")
		return 0
	}

	start := p.now()
	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Cache-Control", "no-cache").
		SetQueryParam("t", strconv.FormatInt(start.UnixNano(), 10)).
		Get(p.url)
	if err != nil {
		p.log.Debug("network probe failed", "err", err)
		return 0
	}
	if !resp.IsSuccess() {
		p.log.Debug("network probe failed", "status", resp.StatusCode())
		return 0
	}
	elapsed := p.now().Sub(start)
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}

	size := int64(len(resp.Body()))
	if size == 0 {
		size = p.approx
	}
	mbps := float64(size) * 8 / elapsed.Seconds() / 1e6
	tier := TierFor(mbps)
	p.log.Info("network probe", "bytes", size, "elapsed", elapsed, "mbps", mbps, "tier", tier)
	return tier
}
