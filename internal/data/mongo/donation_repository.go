package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/donation-wallet/internal/domain/donation"
	"github.com/donation-wallet/internal/domain/shared"
	"github.com/donation-wallet/internal/platform/persistence"
)

// DonationRepository implements the donation.Repository interface for MongoDB
type DonationRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewDonationRepository creates a new MongoDB donation repository
func NewDonationRepository(logger *slog.Logger, db *mongo.Database) donation.Repository {
	return &DonationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *DonationRepository) collection() *mongo.Collection {
	return r.db.Collection(persistence.DonationsCollection)
}

// Create stores a new donation. A donation with the same ID or idempotency
// key yields ErrDuplicateDonation.
func (r *DonationRepository) Create(ctx context.Context, d *donation.Donation) error {
	_, err := r.collection().InsertOne(ctx, d)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return donation.ErrDuplicateDonation{ID: d.ID}
		}
		r.logger.Error("Failed to create donation",
			"donation_id", d.ID.String(),
			"error", err)
		return fmt.Errorf("failed to create donation: %w", err)
	}

	return nil
}

// GetByID retrieves a donation by its ID.
// Returns ErrDonationNotFound if it does not exist.
func (r *DonationRepository) GetByID(ctx context.Context, id uuid.UUID) (*donation.Donation, error) {
	var d donation.Donation
	err := r.collection().FindOne(ctx, bson.M{"donation_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, donation.ErrDonationNotFound{ID: id}
		}
		r.logger.Error("Failed to get donation",
			"donation_id", id.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}

	return &d, nil
}

// GetByIdempotencyKey retrieves a donation by the key its donor supplied.
// Returns nil, nil if no donation carries the key.
func (r *DonationRepository) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*donation.Donation, error) {
	if idempotencyKey == "" {
		return nil, errors.New("idempotency key cannot be empty")
	}

	var d donation.Donation
	err := r.collection().FindOne(ctx, bson.M{"idempotency_key": idempotencyKey}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error("Failed to get donation by idempotency key",
			"idempotency_key", idempotencyKey,
			"error", err)
		return nil, fmt.Errorf("failed to get donation by idempotency key: %w", err)
	}

	return &d, nil
}

// ListReceived returns the newest completed donations received by toUserID
func (r *DonationRepository) ListReceived(ctx context.Context, toUserID uuid.UUID, limit int) ([]*donation.Donation, error) {
	filter := bson.M{
		"to_user_id": toUserID,
		"status":     shared.DonationStatusCompleted,
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	donations, err := r.find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list received donations",
			"to_user_id", toUserID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to list received donations: %w", err)
	}

	return donations, nil
}

// GetReceivedByIDs returns the completed donations among ids received by
// toUserID, newest first. Ids that match nothing are left out.
func (r *DonationRepository) GetReceivedByIDs(ctx context.Context, toUserID uuid.UUID, ids []uuid.UUID) ([]*donation.Donation, error) {
	if len(ids) == 0 {
		return []*donation.Donation{}, nil
	}

	filter := bson.M{
		"donation_id": bson.M{"$in": ids},
		"to_user_id":  toUserID,
		"status":      shared.DonationStatusCompleted,
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	donations, err := r.find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get donations by ids",
			"to_user_id", toUserID.String(),
			"requested", len(ids),
			"error", err)
		return nil, fmt.Errorf("failed to get donations by ids: %w", err)
	}

	return donations, nil
}

// UpdateStatus sets the status, failure reason and processed timestamp.
// Returns ErrDonationNotFound if the donation does not exist.
func (r *DonationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status shared.DonationStatus, reason string) error {
	update := bson.M{
		"$set": bson.M{
			"status":         status,
			"failure_reason": reason,
			"processed_at":   time.Now(),
		},
	}

	result, err := r.collection().UpdateOne(ctx, bson.M{"donation_id": id}, update)
	if err != nil {
		r.logger.Error("Failed to update donation status",
			"donation_id", id.String(),
			"status", string(status),
			"error", err)
		return fmt.Errorf("failed to update donation status: %w", err)
	}

	if result.MatchedCount == 0 {
		return donation.ErrDonationNotFound{ID: id}
	}

	return nil
}

func (r *DonationRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*donation.Donation, error) {
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	donations := []*donation.Donation{}
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, err
	}

	return donations, nil
}
