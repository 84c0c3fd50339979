package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/donation-wallet/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoDB struct {
	logger   *slog.Logger
	client   *mongo.Client
	database *mongo.Database
}

func NewMongoDB(ctx context.Context, logger *slog.Logger, cfg *config.MongoDBConfig) (*MongoDB, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(cfg.Database)

	// Idempotency replays rely on the unique indexes, so startup fails without them
	if err := ensureIndexes(ctx, database.Collection(DonationsCollection).Indexes(), logger); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoDB{
		logger:   logger,
		client:   client,
		database: database,
	}, nil
}

// DonationsCollection is the collection holding the donation ledger
const DonationsCollection = "donations"

// DonationIndexes lists the indexes the donation ledger queries rely on.
func DonationIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "donation_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "to_user_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "idempotency_key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"idempotency_key": bson.M{"$exists": true}}),
		},
	}
}

// indexCreator is the part of mongo.IndexView used to create indexes
type indexCreator interface {
	CreateMany(ctx context.Context, models []mongo.IndexModel, opts ...*options.CreateIndexesOptions) ([]string, error)
}

// ensureIndexes creates the donation ledger indexes if they are missing
func ensureIndexes(ctx context.Context, indexes indexCreator, logger *slog.Logger) error {
	names, err := indexes.CreateMany(ctx, DonationIndexes())
	if err != nil {
		return fmt.Errorf("failed to create donation indexes: %w", err)
	}
	logger.Info("MongoDB indexes ensured", "collection", DonationsCollection, "indexes", names)
	return nil
}

var _ indexCreator = mongo.IndexView{}

func (m *MongoDB) Database() *mongo.Database {
	return m.database
}

func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

func (m *MongoDB) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	m.logger.Info("Closed MongoDB connection")
	return nil
}
