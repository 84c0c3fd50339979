package walletclient

import (
	"context"
	"net/http"

	"github.com/donation-wallet/internal/identity"
	"github.com/donation-wallet/internal/wallet"
	"github.com/shopspring/decimal"
)

type ledgerData struct {
	Wallet    decimal.Decimal         `json:"wallet"`
	Currency  string                  `json:"currency"`
	Donations []wallet.DonationRecord `json:"donations"`
}

type donationsData struct {
	Donations []wallet.DonationRecord `json:"donations"`
}

// FetchLedger loads the signed-in owner's balance and newest donations
func (c *Client) FetchLedger(ctx context.Context) (*wallet.LedgerSnapshot, error) {
	var data ledgerData
	if err := c.do(ctx, http.MethodGet, "/api/wallet", nil, nil, &data, true); err != nil {
		return nil, err
	}
	records := data.Donations
	if records == nil {
		records = []wallet.DonationRecord{}
	}
	return &wallet.LedgerSnapshot{Balance: data.Wallet, Records: records}, nil
}

// FetchByIDs loads the owner's donations among ids. Unknown ids are left out
// by the server. An empty ids list returns without a request.
func (c *Client) FetchByIDs(ctx context.Context, ids []string) ([]wallet.DonationRecord, error) {
	if len(ids) == 0 {
		return []wallet.DonationRecord{}, nil
	}

	var data donationsData
	if err := c.do(ctx, http.MethodGet, "/api/donations/selected", selectedQuery(ids), nil, &data, true); err != nil {
		return nil, err
	}
	if data.Donations == nil {
		return []wallet.DonationRecord{}, nil
	}
	return data.Donations, nil
}

// Account is the signed-in user's own profile
type Account struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Username string          `json:"username"`
	Wallet   decimal.Decimal `json:"wallet"`
	Currency string          `json:"currency"`
}

// Identity converts the account into the identity provider's user
func (a *Account) Identity() *identity.User {
	return &identity.User{ID: a.ID, Name: a.Name, Username: a.Username}
}

// Session is a freshly issued token with its owner
type Session struct {
	Token   string  `json:"token"`
	Account Account `json:"user"`
}

// Login exchanges credentials for a session. It does not store the token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &session, false); err != nil {
		return nil, err
	}
	return &session, nil
}

// Me returns the account the current token belongs to
func (c *Client) Me(ctx context.Context) (*Account, error) {
	var data struct {
		User Account `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &data, true); err != nil {
		return nil, err
	}
	return &data.User, nil
}

// DonationRequest is a donation to submit
type DonationRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	ToUsername     string          `json:"toUsername"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
}

// Recipient names who received a donation
type Recipient struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username"`
}

// DonationReceipt is the API's answer to a submitted donation
type DonationReceipt struct {
	Donation  wallet.DonationRecord `json:"donation"`
	Recipient Recipient             `json:"recipient"`
}

// SubmitDonation queues a donation; the recipient's ledger shows it once processed
func (c *Client) SubmitDonation(ctx context.Context, request DonationRequest) (*DonationReceipt, error) {
	var receipt DonationReceipt
	if err := c.do(ctx, http.MethodPost, "/api/donations", nil, request, &receipt, true); err != nil {
		return nil, err
	}
	return &receipt, nil
}

var _ wallet.LedgerFetcher = (*Client)(nil)
