package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/donation-wallet/internal/domain/shared"
	"github.com/donation-wallet/internal/donation_processor/service"
	"github.com/donation-wallet/internal/platform/messaging/producers"
	"github.com/google/uuid"
)

var errMissingDonationID = errors.New("donation_id is missing")

// DonationEventHandler handles incoming donation request messages from Kafka
type DonationEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewDonationEventHandler creates a new handler
func NewDonationEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *DonationEventHandler {
	return &DonationEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages. A nil return commits the offset.
func (h *DonationEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	request, err := decodeRequest(value)
	if err != nil {
		return h.deadLetter(ctx, key, value, err)
	}

	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Received donation request",
		"donation_id", request.DonationID.String(),
		"recipient_id", request.ToUserID.String(),
		"amount", request.Amount,
	)

	if err := h.processingService.ProcessDonation(ctx, request); err != nil {
		logger.Error("Failed to process donation",
			"donation_id", request.DonationID.String(),
			"error", err,
		)
		return fmt.Errorf("processing donation %s failed: %w", request.DonationID.String(), err)
	}

	return nil
}

func decodeRequest(value []byte) (*shared.DonationRequest, error) {
	var request shared.DonationRequest
	if err := json.Unmarshal(value, &request); err != nil {
		return nil, err
	}
	if request.DonationID == uuid.Nil {
		return nil, errMissingDonationID
	}
	return &request, nil
}

// deadLetter parks an undecodable message. Without a DLQ the message is
// dropped, since redelivery cannot fix the payload.
func (h *DonationEventHandler) deadLetter(ctx context.Context, key, value []byte, cause error) error {
	reason := fmt.Sprintf("unprocessable donation request: %s", cause.Error())
	h.logger.Error("Failed to decode donation request", "error", cause, "message_key", string(key))

	if h.producer == nil {
		h.logger.Warn("No DLQ configured, dropping message", "message_key", string(key))
		return nil
	}

	if err := h.producer.PublishToDLQ(ctx, string(key), value, reason); err != nil {
		if errors.Is(err, producers.ErrDLQDisabled) {
			h.logger.Warn("DLQ disabled, dropping message", "message_key", string(key))
			return nil
		}
		h.logger.Error("Failed to publish message to DLQ", "dlq_error", err, "message_key", string(key))
		return fmt.Errorf("dead-lettering message %q failed: %w", string(key), err)
	}

	h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key))
	return nil
}
