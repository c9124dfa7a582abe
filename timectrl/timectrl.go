package timectrl

import (
	"context"
	"strings"
	"time"
)

// Mode describes how playback advances through a frame sequence.
type Mode int

const (
	// RealTime paces frames by the scene's time step, so a browser
	// replays the run at simulated speed.
	RealTime Mode = iota
	// Fast delivers frames as quickly as the consumer accepts them.
	Fast
)

// ParseMode maps a query-string value to a Mode. Anything other than
// "fast" means real time.
func ParseMode(s string) Mode {
	if strings.EqualFold(s, "fast") {
		return Fast
	}
	return RealTime
}

// FramePacer gates the delivery of successive frames. One pacer serves one
// playback; pacers are not safe for concurrent use.
type FramePacer struct {
	mode   Mode
	step   time.Duration
	ticker *time.Ticker
}

// NewFramePacer constructs a pacer that, in real-time mode, spaces frames
// by the given step. Non-positive steps fall back to a sane interval so a
// malformed scene cannot spin the stream loop.
func NewFramePacer(mode Mode, step time.Duration) *FramePacer {
	if step <= 0 {
		step = 50 * time.Millisecond
	}
	return &FramePacer{mode: mode, step: step}
}

// Wait blocks until the next frame is due or the context ends. In fast
// mode it never blocks.
func (p *FramePacer) Wait(ctx context.Context) error {
	if p.mode == Fast {
		return ctx.Err()
	}
	if p.ticker == nil {
		p.ticker = time.NewTicker(p.step)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ticker.C:
		return nil
	}
}

// Stop releases the pacer's ticker. Safe to call multiple times.
func (p *FramePacer) Stop() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
}
