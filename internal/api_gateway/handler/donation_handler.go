package handler

import (
	"log/slog"

	"github.com/donation-wallet/internal/api_gateway/middleware"
	"github.com/donation-wallet/internal/api_gateway/service"
	"github.com/donation-wallet/internal/broadcast"
	"github.com/gin-gonic/gin"
)

// DonationHandler handles the wallet and donation endpoints
type DonationHandler struct {
	donationService service.DonationService
	logger          *slog.Logger
}

// NewDonationHandler creates a new donation handler
func NewDonationHandler(logger *slog.Logger, donationService service.DonationService) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
		logger:          logger,
	}
}

// GetWallet returns the caller's balance and newest received donations
func (h *DonationHandler) GetWallet(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	wallet, err := h.donationService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, "get_wallet", err)
		return
	}

	RespondOK(c, WalletResponse{
		Wallet:    amountJSON(wallet.Balance),
		Currency:  wallet.Currency,
		Donations: mapDonations(wallet.Donations),
	})
}

// GetSelected returns the caller's donations named by the ids query parameter
func (h *DonationHandler) GetSelected(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	donations, err := h.donationService.GetSelected(c.Request.Context(), userID, c.Query(broadcast.QueryParam))
	if err != nil {
		respondServiceError(c, h.logger, "get_selected", err)
		return
	}

	RespondOK(c, DonationListResponse{Donations: mapDonations(donations)})
}

// Create accepts a donation for asynchronous processing. A replayed
// idempotency key is answered with 200 and the earlier donation.
func (h *DonationHandler) Create(c *gin.Context) {
	donorID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	receipt, err := h.donationService.CreateDonation(c.Request.Context(), donorID, service.CreateDonationInput{
		Amount:         req.Amount,
		ToUsername:     req.ToUsername,
		IdempotencyKey: req.IdempotencyKey,
		CorrelationID:  middleware.GetCorrelationID(c),
	})
	if err != nil {
		respondServiceError(c, h.logger, "create_donation", err)
		return
	}

	response := DonationReceiptResponse{
		Donation: mapDonationToResponse(receipt.Donation),
		Recipient: RecipientResponse{
			Name:     receipt.Recipient.Name,
			Username: receipt.Recipient.Username,
		},
	}
	if receipt.Replayed {
		RespondOK(c, response)
		return
	}
	RespondAccepted(c, response)
}
