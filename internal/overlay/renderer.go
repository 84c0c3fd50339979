// Package overlay renders the broadcast surface: it decodes a reference, re-
// fetches the referenced donations and lays them out as a staggered reveal.
package overlay

import (
	"context"
	"log/slog"
	"time"

	"github.com/donation-wallet/internal/broadcast"
	"github.com/donation-wallet/internal/wallet"
	"github.com/shopspring/decimal"
)

const (
	DefaultRevealStep     = 80 * time.Millisecond
	DefaultRevealDuration = 400 * time.Millisecond

	// NoticeFetchFailed is shown when the selected donations could not be loaded
	NoticeFetchFailed = "Seçili bağışlar yüklenemedi"
)

// State is a step of the overlay state machine
type State int

const (
	StateLoading State = iota
	StateEmpty
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// Fetcher loads donations by id. Unknown ids are omitted from the result.
type Fetcher interface {
	FetchByIDs(ctx context.Context, ids []string) ([]wallet.DonationRecord, error)
}

// Frame is the outcome of rendering one reference
type Frame struct {
	State     State
	IDs       []string
	Donations []wallet.DonationRecord
	Total     decimal.Decimal
	Notice    string

	reveal *Reveal
}

// Reveal returns the frame's row sequence. It is nil unless the frame is
// populated, and it is the same sequence on every call.
func (f *Frame) Reveal() *Reveal {
	return f.reveal
}

// Renderer drives the overlay state machine
type Renderer struct {
	fetcher  Fetcher
	step     time.Duration
	duration time.Duration
	logger   *slog.Logger
}

// NewRenderer creates a renderer. Non-positive timings fall back to the defaults.
func NewRenderer(fetcher Fetcher, step, duration time.Duration, logger *slog.Logger) *Renderer {
	if step <= 0 {
		step = DefaultRevealStep
	}
	if duration <= 0 {
		duration = DefaultRevealDuration
	}
	return &Renderer{
		fetcher:  fetcher,
		step:     step,
		duration: duration,
		logger:   logger,
	}
}

// Render runs the state machine for one raw reference and returns its
// terminal frame. A fetch failure never escapes; it becomes an empty frame
// with a notice.
func (r *Renderer) Render(ctx context.Context, reference string) *Frame {
	frame := &Frame{
		State: StateLoading,
		IDs:   broadcast.Decode(reference),
		Total: decimal.Zero,
	}

	if len(frame.IDs) == 0 {
		frame.State = StateEmpty
		return frame
	}

	donations, err := r.fetcher.FetchByIDs(ctx, frame.IDs)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to fetch selected donations",
			"ids", len(frame.IDs),
			"error", err,
		)
		frame.State = StateEmpty
		frame.Notice = NoticeFetchFailed
		return frame
	}

	if len(donations) == 0 {
		frame.State = StateEmpty
		return frame
	}

	frame.State = StatePopulated
	frame.Donations = donations
	frame.Total = wallet.Total(donations)
	frame.reveal = newReveal(donations, r.step, r.duration)
	return frame
}
