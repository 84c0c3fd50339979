package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donation-wallet/internal/config"
	"github.com/donation-wallet/internal/domain/outbox"
	"github.com/donation-wallet/internal/domain/shared"
)

// Poller completes credited donations in the ledger by draining the outbox
type Poller struct {
	outboxRepo      outbox.Repository
	ledgerPublisher LedgerPublisher
	logger          *slog.Logger
	interval        time.Duration
	batchSize       int
	maxAttempts     int
}

// Pass summarizes one drain of the outbox.
type Pass struct {
	Completed int // messages written to the ledger
	Retrying  int // messages that failed and stay PENDING
	Abandoned int // messages marked FAILED_TO_PUBLISH
}

func NewPoller(
	cfg *config.OutboxConfig,
	outboxRepo outbox.Repository,
	ledgerPublisher LedgerPublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		outboxRepo:      outboxRepo,
		ledgerPublisher: ledgerPublisher,
		logger:          logger,
		interval:        cfg.PollingInterval,
		batchSize:       cfg.BatchSize,
		maxAttempts:     cfg.MaxRetryAttempts,
	}
}

// Start drains the outbox once, then again on every tick, until ctx is done.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Outbox poller started",
		"interval", p.interval.String(),
		"batch_size", p.batchSize,
		"max_attempts", p.maxAttempts,
	)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.drainAndLog(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("Outbox poller stopped")
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) drainAndLog(ctx context.Context) {
	pass, err := p.Drain(ctx)
	if err != nil && ctx.Err() == nil {
		p.logger.Error("Outbox drain failed", "error", err)
	}
	if pass.Completed+pass.Retrying+pass.Abandoned > 0 {
		p.logger.Info("Outbox drained",
			"completed", pass.Completed,
			"retrying", pass.Retrying,
			"abandoned", pass.Abandoned,
		)
	}
}

// Drain fetches batches while every message of a full batch leaves PENDING.
// A short batch or any message still pending ends the pass, so retries wait
// for the next tick.
func (p *Poller) Drain(ctx context.Context) (Pass, error) {
	var pass Pass
	for {
		messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
		if err != nil {
			return pass, fmt.Errorf("failed to get pending outbox messages: %w", err)
		}

		completed := 0
		for _, msg := range messages {
			if err := ctx.Err(); err != nil {
				return pass, err
			}
			if p.complete(ctx, msg, &pass) {
				completed++
			}
		}

		if len(messages) < p.batchSize || completed < len(messages) {
			return pass, nil
		}
	}
}

// complete publishes one message and books the outcome. It reports whether
// the message left the PENDING state.
func (p *Poller) complete(ctx context.Context, msg *outbox.Message, pass *Pass) bool {
	err := p.ledgerPublisher.PublishToLedger(ctx, msg)
	if err == nil {
		pass.Completed++
		return true
	}

	logger := p.logger.With("outbox_id", msg.ID, "donation_id", msg.DonationID.String())
	logger.Error("Failed to complete donation in ledger", "attempts", msg.Attempts, "error", err)

	if err := p.outboxRepo.IncrementAttempts(ctx, msg.ID); err != nil {
		logger.Error("Failed to record outbox attempt", "error", err)
		pass.Retrying++
		return false
	}

	if msg.Attempts+1 < p.maxAttempts {
		pass.Retrying++
		return false
	}

	logger.Warn("Giving up on outbox message", "attempts", msg.Attempts+1)
	if err := p.outboxRepo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusFailedToPublish); err != nil {
		logger.Error("Failed to mark outbox message as FAILED_TO_PUBLISH", "error", err)
		pass.Retrying++
		return false
	}
	pass.Abandoned++
	return true
}
