package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelledger/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// Client holds the connections to external infrastructure shared by a service.
type Client struct {
	Redis    *redis.Client
	RabbitMQ *amqp.Connection
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetRedis(log *logger.Logger, addr, password string, db int, connTimeout time.Duration) error {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	log.Info("Successfully connected to Redis", "addr", addr, "db", db)
	c.Redis = client
	return nil
}

func (c *Client) SetRabbitMQ(log *logger.Logger, url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	log.Info("Successfully connected to RabbitMQ")
	c.RabbitMQ = conn
	return nil
}

func (c *Client) Close() error {
	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.RabbitMQ != nil && !c.RabbitMQ.IsClosed() {
		errs = append(errs, c.RabbitMQ.Close())
	}
	return errors.Join(errs...)
}
