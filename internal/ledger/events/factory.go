package events

import (
	"fmt"

	"hotelledger/pkg/client"
	"hotelledger/pkg/config"
	"hotelledger/pkg/kafka"
	kafka_config "hotelledger/pkg/kafka/config"
	kafka_middleware "hotelledger/pkg/kafka/middleware"
)

// NewPublisher builds the publisher selected by EVENTS_BROKER. The rabbitmq
// broker needs clients.RabbitMQ to be connected.
func NewPublisher(cfg *config.Config, clients *client.Client) (Publisher, error) {
	switch cfg.EventsBroker {
	case config.BrokerNone:
		return NopPublisher{}, nil

	case config.BrokerKafka:
		kafkaCfg, err := kafka_config.Load()
		if err != nil {
			return nil, err
		}
		kafkaCfg.LogConfiguration(cfg.Log)

		producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka producer: %w", err)
		}
		if kafkaCfg.EnableMiddleware {
			producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		}
		return NewKafkaPublisher(producer), nil

	case config.BrokerRabbitMQ:
		if clients == nil || clients.RabbitMQ == nil {
			return nil, fmt.Errorf("rabbitmq connection is not initialised")
		}
		channel, err := clients.RabbitMQ.Channel()
		if err != nil {
			return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
		}
		return NewRabbitPublisher(channel, cfg.EventsTopic)

	default:
		return nil, fmt.Errorf("unknown events broker %q", cfg.EventsBroker)
	}
}
