// Command hotel-demo replays the reference booking scenario against a ledger
// and prints the resulting reports.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelledger/internal/ledger/repository"
	"hotelledger/internal/ledger/service"
	"hotelledger/internal/ledger/validator"
	"hotelledger/pkg/client"
	"hotelledger/pkg/config"
	"hotelledger/pkg/logger"
	"hotelledger/pkg/model"
)

const (
	ServiceName = "hotel-demo"

	// The scripted stays are in July 2026, so "today" is pinned before them.
	defaultToday = "2026-06-01"
	healthWait   = 10 * time.Second
)

func main() {
	remoteURL := flag.String("remote", "", "base URL of a running hotel-api; empty runs against an in-process ledger")
	today := flag.String("today", defaultToday, "business date (YYYY-MM-DD) treated as today by the in-process ledger")
	logLevel := flag.String("log-level", logger.WARN, "log level for ledger diagnostics (debug, info, warn, error)")
	flag.Parse()

	log := logger.New(logger.Config{
		Level:   *logLevel,
		Format:  logger.TEXT,
		Output:  os.Stderr,
		Service: ServiceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ledger Ledger
	if *remoteURL != "" {
		ledgerClient := client.NewLedgerClient(*remoteURL)
		if err := ledgerClient.HTTP().WaitForHealthy(ctx, healthWait); err != nil {
			log.Fatal("Hotel API is not reachable", "url", *remoteURL, "error", err)
		}
		ledger = NewRemoteLedger(ledgerClient)
		log.Info("Running scenario against remote ledger", "url", *remoteURL)
	} else {
		if _, err := model.ParseDate(*today); err != nil {
			log.Fatal("Invalid business date", "today", *today, "error", err)
		}
		ledger = NewLocalLedger(newLocalService(&config.Config{
			BusinessDate: *today,
			EventsBroker: config.BrokerNone,
			Log:          log,
		}))
		log.Info("Running scenario against in-process ledger", "today", *today)
	}

	if err := RunScenario(ctx, ledger, os.Stdout); err != nil {
		log.Fatal("Scenario failed", "error", err)
	}
}

func newLocalService(cfg *config.Config) service.LedgerService {
	return service.NewLedgerService(
		repository.NewMemoryRoomRepository(),
		repository.NewMemoryUserRepository(),
		repository.NewMemoryBookingRepository(),
		validator.NewLedgerValidator(cfg.Log),
		nil,
		cfg,
	)
}
