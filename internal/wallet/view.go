package wallet

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/donation-wallet/internal/broadcast"
	"github.com/shopspring/decimal"
)

var (
	// ErrBusy is returned while a ledger fetch is in flight
	ErrBusy = errors.New("wallet: ledger fetch in progress")
	// ErrClosed is returned once the view has been closed
	ErrClosed = errors.New("wallet: view closed")
	// ErrNothingSelected is returned when broadcasting an empty selection
	ErrNothingSelected = errors.New("wallet: no donations selected")
)

// LedgerFetcher loads the owner's ledger
type LedgerFetcher interface {
	FetchLedger(ctx context.Context) (*LedgerSnapshot, error)
}

// Summary is everything the wallet header shows
type Summary struct {
	Balance   decimal.Decimal
	RecentSum decimal.Decimal
	Records   int
	Selected  int
	Dangling  int // selected ids missing from the current snapshot
	Loading   bool
	Loaded    bool
}

// View is the owner's wallet screen state. Only one ledger fetch runs at a
// time and the selection cannot change while it does.
type View struct {
	fetcher    LedgerFetcher
	selection  *Selection
	windowDays int
	now        func() time.Time
	logger     *slog.Logger

	mu       sync.Mutex
	loading  bool
	closed   bool
	snapshot *LedgerSnapshot
}

func NewView(fetcher LedgerFetcher, windowDays int, logger *slog.Logger) *View {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &View{
		fetcher:    fetcher,
		selection:  NewSelection(),
		windowDays: windowDays,
		now:        time.Now,
		logger:     logger,
	}
}

// Load fetches the ledger and replaces the snapshot on success. A failed
// fetch keeps the previous snapshot. A result arriving after Close is dropped.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if v.loading {
		v.mu.Unlock()
		return ErrBusy
	}
	v.loading = true
	v.mu.Unlock()

	snapshot, err := v.fetcher.FetchLedger(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if v.closed {
		v.logger.Debug("Dropping ledger result after close")
		return nil
	}
	if err != nil {
		return err
	}
	v.snapshot = snapshot
	return nil
}

// Toggle flips the selection of a record id
func (v *View) Toggle(id string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loading {
		return false, ErrBusy
	}
	return v.selection.Toggle(id), nil
}

// ClearSelection empties the selection
func (v *View) ClearSelection() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loading {
		return ErrBusy
	}
	v.selection.Clear()
	return nil
}

// Selection exposes the selection for reading
func (v *View) Selection() *Selection {
	return v.selection
}

// Records returns the records of the current snapshot
func (v *View) Records() []DonationRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.snapshot == nil {
		return nil
	}
	return v.snapshot.Records
}

func (v *View) Summary() Summary {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := Summary{
		Balance:   decimal.Zero,
		RecentSum: decimal.Zero,
		Selected:  v.selection.Count(),
		Loading:   v.loading,
		Loaded:    v.snapshot != nil,
	}
	for _, id := range v.selection.IDs() {
		if !v.snapshot.Contains(id) {
			s.Dangling++
		}
	}
	if v.snapshot != nil {
		s.Balance = v.snapshot.Balance
		s.RecentSum = TrailingWindowSum(v.snapshot.Records, v.windowDays, v.now())
		s.Records = len(v.snapshot.Records)
	}
	return s
}

// OverlayURL encodes the selection into an overlay link under base
func (v *View) OverlayURL(base string) (string, error) {
	ids := v.selection.IDs()
	if len(ids) == 0 {
		return "", ErrNothingSelected
	}
	return broadcast.OverlayURL(base, ids)
}

// Close marks the view as gone. Later fetch results are ignored.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}
