package overlay

import (
	"time"

	"github.com/donation-wallet/internal/wallet"
)

// Row is one entry of the staggered reveal
type Row struct {
	Index    int
	Donation wallet.DonationRecord
	Delay    time.Duration // Index × reveal step
	Duration time.Duration
}

// Reveal yields rows in order, each exactly once. Once drained it stays
// drained.
type Reveal struct {
	donations []wallet.DonationRecord
	step      time.Duration
	duration  time.Duration
	next      int
}

func newReveal(donations []wallet.DonationRecord, step, duration time.Duration) *Reveal {
	return &Reveal{
		donations: donations,
		step:      step,
		duration:  duration,
	}
}

// Next returns the following row, or false when the sequence is exhausted
func (r *Reveal) Next() (Row, bool) {
	if r == nil || r.next >= len(r.donations) {
		return Row{}, false
	}
	i := r.next
	r.next++
	return Row{
		Index:    i,
		Donation: r.donations[i],
		Delay:    time.Duration(i) * r.step,
		Duration: r.duration,
	}, true
}

// Len is the total number of rows, consumed or not
func (r *Reveal) Len() int {
	if r == nil {
		return 0
	}
	return len(r.donations)
}

// Drain consumes the remaining rows
func (r *Reveal) Drain() []Row {
	rows := make([]Row, 0, r.Len())
	for {
		row, ok := r.Next()
		if !ok {
			return rows
		}
		rows = append(rows, row)
	}
}
