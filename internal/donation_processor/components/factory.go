package components

import (
	"log/slog"

	"github.com/donation-wallet/internal/config"
	"github.com/donation-wallet/internal/domain/donation"
	"github.com/donation-wallet/internal/domain/outbox"
	"github.com/donation-wallet/internal/domain/user"
	"github.com/donation-wallet/internal/donation_processor/service"
	"github.com/donation-wallet/internal/platform/persistence"
)

// CreateProcessingService creates a new ProcessingService with all its
// dependencies, wrapped in a worker pool of cfg.WorkerPool.Size workers.
func CreateProcessingService(
	db persistence.TxBeginner,
	userRepo user.Repository,
	outboxRepo outbox.Repository,
	donationRepo donation.Repository,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	baseService := service.NewProcessingService(
		db,
		NewDonationValidator(donationRepo, logger),
		NewRecipientManager(userRepo, logger),
		NewOutboxManager(outboxRepo, logger),
		NewFailureRecorder(donationRepo, logger),
		logger,
	)

	if cfg.WorkerPool.Size <= 0 {
		logger.Warn("Worker pool disabled, processing donations inline", "pool_size", cfg.WorkerPool.Size)
		return baseService
	}

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
