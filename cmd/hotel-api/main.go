package main

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"hotelledger/internal/ledger/events"
	"hotelledger/internal/ledger/handler"
	"hotelledger/internal/ledger/repository"
	"hotelledger/internal/ledger/service"
	"hotelledger/internal/ledger/validator"
	"hotelledger/pkg/app"
	"hotelledger/pkg/client"
	"hotelledger/pkg/config"
	"hotelledger/pkg/middleware"
)

const (
	ServiceName = "hotel-api"

	connTimeout = 5 * time.Second
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting hotel ledger API")

	clients := connectClients(cfg)
	publisher := initPublisher(cfg, clients)
	ledgerService := initServices(cfg, publisher)

	healthHandler := handler.NewHealthHandler(cfg.Log)
	registerDependencies(healthHandler, clients)

	application := app.NewApplication(cfg)
	application.SetApp(
		healthHandler,
		initIdempotencyStore(cfg, clients),
		handler.NewLedgerHandler(ledgerService, cfg.Log),
	)
	application.OnShutdown("clients", clients.Close)
	application.OnShutdown("event publisher", publisher.Close)
	application.Run()
}

func connectClients(cfg *config.Config) *client.Client {
	clients := client.NewClient()

	if cfg.IdempotencyStore == config.StoreRedis {
		if err := clients.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, connTimeout); err != nil {
			cfg.Log.Fatal("Failed to connect to Redis", "error", err)
		}
	}

	if cfg.EventsBroker == config.BrokerRabbitMQ {
		if err := clients.SetRabbitMQ(cfg.Log, cfg.RabbitMQURL); err != nil {
			_ = clients.Close()
			cfg.Log.Fatal("Failed to connect to RabbitMQ", "error", err)
		}
	}

	return clients
}

func initPublisher(cfg *config.Config, clients *client.Client) events.Publisher {
	publisher, err := events.NewPublisher(cfg, clients)
	if err != nil {
		_ = clients.Close()
		cfg.Log.Fatal("Failed to initialise event publisher", "broker", cfg.EventsBroker, "error", err)
	}
	cfg.Log.Info("Event publisher initialized", "broker", cfg.EventsBroker, "topic", cfg.EventsTopic)
	return publisher
}

func initServices(cfg *config.Config, publisher events.Publisher) service.LedgerService {
	ledgerService := service.NewLedgerService(
		repository.NewMemoryRoomRepository(),
		repository.NewMemoryUserRepository(),
		repository.NewMemoryBookingRepository(),
		validator.NewLedgerValidator(cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Ledger service initialized", "business_date", cfg.BusinessDate)
	return ledgerService
}

func initIdempotencyStore(cfg *config.Config, clients *client.Client) middleware.IdempotencyStore {
	if clients.Redis != nil {
		cfg.Log.Info("Using Redis idempotency store", "addr", cfg.RedisAddr)
		return middleware.NewRedisIdempotencyStore(clients.Redis, cfg.IdempotencyTTL)
	}
	return middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL)
}

func registerDependencies(healthHandler *handler.HealthHandler, clients *client.Client) {
	if clients.Redis != nil {
		healthHandler.AddDependency("redis", handler.PingerFunc(func(ctx context.Context) error {
			return clients.Redis.Ping(ctx).Err()
		}))
	}
	if clients.RabbitMQ != nil {
		healthHandler.AddDependency("rabbitmq", handler.PingerFunc(func(context.Context) error {
			if clients.RabbitMQ.IsClosed() {
				return amqp.ErrClosed
			}
			return nil
		}))
	}
}
