package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/donation-wallet/internal/domain/shared"
	"github.com/panjf2000/ants/v2"
)

// ErrPoolStopped is returned for donations submitted after Shutdown.
var ErrPoolStopped = errors.New("worker pool stopped")

// WorkerPoolProcessingService caps how many donations are credited at once.
// Each Kafka message still waits for its own result so offsets are committed
// only after the credit.
type WorkerPoolProcessingService struct {
	next   ProcessingService
	pool   *ants.Pool
	logger *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	next ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size, ants.WithPreAlloc(false))
	if err != nil {
		return nil, fmt.Errorf("create worker pool of %d: %w", config.Size, err)
	}

	return &WorkerPoolProcessingService{next: next, pool: pool, logger: logger}, nil
}

// ProcessDonation runs the donation on a pool worker and waits for it. A
// panic inside the worker comes back as an error. If ctx ends first the
// context error is returned and the worker finishes on its own.
func (s *WorkerPoolProcessingService) ProcessDonation(ctx context.Context, request *shared.DonationRequest) error {
	donationID := request.DonationID.String()
	done := make(chan error, 1)
	req := *request

	submitErr := s.pool.Submit(func() {
		defer func() {
			if p := recover(); p != nil {
				s.logger.Error("Donation worker panicked", "donation_id", donationID, "panic", p)
				done <- fmt.Errorf("donation %s: worker panic: %v", donationID, p)
			}
		}()
		done <- s.next.ProcessDonation(ctx, &req)
	})
	if errors.Is(submitErr, ants.ErrPoolClosed) {
		return ErrPoolStopped
	}
	if submitErr != nil {
		s.logger.Error("Donation rejected by worker pool", "donation_id", donationID, "error", submitErr)
		return submitErr
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown releases the pool; queued submissions fail with ErrPoolStopped.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Releasing worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
