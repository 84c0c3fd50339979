// Package wallet holds the owner-facing ledger state of the terminal wallet:
// the fetched snapshot, the derived statistics and the selection that is
// handed to the overlay.
package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultWindowDays is the lookback of the recent-activity subtotal
	DefaultWindowDays = 30

	AnonymousLabel = "Anonim bağış"
)

// DonationRecord is one received donation as the API returns it
type DonationRecord struct {
	ID           string          `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         *time.Time      `json:"date,omitempty"`
	FromUserName string          `json:"fromUserName,omitempty"`
}

// IsAnonymous reports whether the donor chose not to be named
func (r DonationRecord) IsAnonymous() bool {
	return r.FromUserName == ""
}

// DisplayName is the donor name, or the anonymous label
func (r DonationRecord) DisplayName() string {
	if r.IsAnonymous() {
		return AnonymousLabel
	}
	return r.FromUserName
}

// LedgerSnapshot is one fetch of the owner's ledger. Records keep the server
// order, newest first.
type LedgerSnapshot struct {
	Balance decimal.Decimal
	Records []DonationRecord
}

// Contains reports whether id is one of the snapshot's records
func (s *LedgerSnapshot) Contains(id string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Records {
		if r.ID == id {
			return true
		}
	}
	return false
}

// TrailingWindowSum adds up the amounts of records dated at most windowDays
// before now. Records without a date never count. The bound is inclusive and
// measured on the exact elapsed time, not on calendar days.
func TrailingWindowSum(records []DonationRecord, windowDays int, now time.Time) decimal.Decimal {
	window := time.Duration(windowDays) * 24 * time.Hour
	sum := decimal.Zero
	for _, r := range records {
		if r.Date == nil {
			continue
		}
		if now.Sub(*r.Date) <= window {
			sum = sum.Add(r.Amount)
		}
	}
	return sum
}

// Total adds up every record amount
func Total(records []DonationRecord) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.Amount)
	}
	return sum
}
