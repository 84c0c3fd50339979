package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// RequestPublisher hands accepted donation requests to the processor. Keys
// are recipient ids so one wallet's credits stay on one partition.
type RequestPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// DeadLetterPublisher parks donation messages the processor cannot decode
// or credit. A disabled publisher reports ErrDLQDisabled.
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter is the subset of *kafka.Writer the producers depend on
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var (
	_ RequestPublisher    = (*DonationReqMessageProducer)(nil)
	_ DeadLetterPublisher = (*DLQProducer)(nil)
	_ KafkaWriter         = (*kafka.Writer)(nil)
)
