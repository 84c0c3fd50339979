package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/donation-wallet/internal/config"
	"github.com/segmentio/kafka-go"
)

// DonationReqMessageProducer publishes accepted donation requests for the
// processor. Messages are keyed by recipient so that credits to one wallet are
// applied in order.
type DonationReqMessageProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewDonationReqMessageProducer ensures the donation topic exists and returns a
// producer writing to it.
func NewDonationReqMessageProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*DonationReqMessageProducer, error) {
	if cfg.DonationTopic == "" {
		return nil, fmt.Errorf("kafka donation topic is not configured")
	}

	if err := ensureTopic(cfg, cfg.DonationTopic, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure donation topic %s exists: %w", cfg.DonationTopic, err)
	}

	// Synchronous writes: the gateway only answers 202 once the broker has the request.
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.DonationTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.MaxWait,
	}

	return &DonationReqMessageProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.DonationTopic,
	}, nil
}

// Publish JSON-encodes value and writes it under key.
func (p *DonationReqMessageProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal donation request: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish donation request",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish donation request to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published donation request",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *DonationReqMessageProducer) Close() error {
	p.logger.Info("Closing donation request producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close donation kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
