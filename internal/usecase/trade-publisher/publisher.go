package tradepublisher

import (
	"context"

	tradepublisherv1 "github.com/matheus-ft/matching-engine/internal/domain/trade-publisher/v1"
	"github.com/matheus-ft/matching-engine/pkg/config"
	"github.com/matheus-ft/matching-engine/pkg/errors"
	"github.com/matheus-ft/matching-engine/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Publisher represents a Kafka publisher for publishing trade events.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for publishing trade events.
func NewPublisher(config config.TradeKafkaConfig, logger logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: config.Brokers,
		Topic:   config.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      logger,
	}
}

// PublishTradeEvent publishes a trade event to the Kafka topic.
func (p *Publisher) PublishTradeEvent(ctx context.Context, event *tradepublisherv1.TradeEvent) error {
	msg := kafka.Message{
		Value: tradepublisherv1.ToBytes(event),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "tradeEvent", Value: event},
		)
		return errors.NewTracer("failed to publish trade event")
	}
	return nil
}

// Close properly closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
