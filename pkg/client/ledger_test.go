package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"

	"hotelledger/internal/ledger/handler"
	"hotelledger/internal/ledger/repository"
	"hotelledger/internal/ledger/service"
	"hotelledger/internal/ledger/validator"
	"hotelledger/pkg/client"
	"hotelledger/pkg/config"
	"hotelledger/pkg/logger"
	"hotelledger/pkg/middleware"
	"hotelledger/pkg/model"
)

func newLedgerServer(t *testing.T) *client.LedgerClient {
	t.Helper()
	log := logger.Discard()
	svc := service.NewLedgerService(
		repository.NewMemoryRoomRepository(),
		repository.NewMemoryUserRepository(),
		repository.NewMemoryBookingRepository(),
		validator.NewLedgerValidator(log),
		nil,
		&config.Config{Log: log},
		service.WithClock(func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }),
	)

	router := httprouter.New()
	handler.NewLedgerHandler(svc, log).RegisterRoutes(router)
	handler.NewHealthHandler(log).RegisterRoutes(router)

	store := middleware.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	server := httptest.NewServer(middleware.Idempotency(store, log, "Idempotency-Key")(router))
	t.Cleanup(server.Close)
	return client.NewLedgerClient(server.URL)
}

func TestLedgerClient_RoundTrip(t *testing.T) {
	c := newLedgerServer(t)
	ctx := context.Background()

	room, err := c.CreateRoom(ctx, 1, "standard", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	if room.ID != 1 || !room.PricePerNight.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("unexpected room %+v", room)
	}

	if _, err := c.CreateUser(ctx, 1, decimal.NewFromInt(5000)); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	receipt, err := c.BookRoom(ctx, model.BookingInput{
		UserID: 1, RoomID: 1, CheckIn: "2026-07-07", CheckOut: "2026-07-08",
	}, "booking-1")
	if err != nil {
		t.Fatalf("BookRoom() error = %v", err)
	}
	if !receipt.Balance.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("expected balance 4000, got %s", receipt.Balance)
	}
	if !receipt.Booking.CheckIn.Equal(time.Date(2026, 7, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected check-in %v", receipt.Booking.CheckIn)
	}

	replayed, err := c.BookRoom(ctx, model.BookingInput{
		UserID: 1, RoomID: 1, CheckIn: "2026-07-07", CheckOut: "2026-07-08",
	}, "booking-1")
	if err != nil {
		t.Fatalf("replayed BookRoom() error = %v", err)
	}
	if replayed.Booking.ID != receipt.Booking.ID {
		t.Errorf("replay must return the original booking, got %d", replayed.Booking.ID)
	}

	if _, err := c.UpdateRoom(ctx, 1, "suite", decimal.NewFromInt(10000)); err != nil {
		t.Fatalf("UpdateRoom() error = %v", err)
	}
	got, err := c.GetRoom(ctx, 1)
	if err != nil || got.Type != "suite" {
		t.Errorf("GetRoom() = %+v, %v", got, err)
	}

	booking, err := c.GetBooking(ctx, 1)
	if err != nil || !booking.TotalPrice.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("GetBooking() = %+v, %v", booking, err)
	}

	user, err := c.GetUser(ctx, 1)
	if err != nil || !user.Balance.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("GetUser() = %+v, %v", user, err)
	}

	snapshot, err := c.Ledger(ctx)
	if err != nil {
		t.Fatalf("Ledger() error = %v", err)
	}
	if len(snapshot.Bookings) != 1 {
		t.Errorf("expected exactly one booking after replay, got %d", len(snapshot.Bookings))
	}

	rooms, err := c.ListRooms(ctx)
	if err != nil || len(rooms.Bookings) != 1 || rooms.Bookings[0].User == nil {
		t.Errorf("ListRooms() = %+v, %v", rooms, err)
	}

	users, err := c.ListUsers(ctx)
	if err != nil || len(users) != 1 {
		t.Errorf("ListUsers() = %+v, %v", users, err)
	}
}

func TestLedgerClient_APIError(t *testing.T) {
	c := newLedgerServer(t)
	ctx := context.Background()

	_, err := c.GetUser(ctx, 42)
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Code != "NOT_FOUND" {
		t.Errorf("unexpected api error %+v", apiErr)
	}
	if apiErr.Message != "User with ID 42 not found" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}

	_, err = c.BookRoom(ctx, model.BookingInput{UserID: 1, RoomID: 1, CheckIn: "2026-07-08", CheckOut: "2026-07-07"}, "")
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for inverted dates, got %v", err)
	}
}

func TestLedgerClient_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := client.NewLedgerClient(server.URL).GetRoom(context.Background(), 1)
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 APIError, got %v", err)
	}
	if apiErr.Message == "" {
		t.Error("expected raw body as message")
	}
}

func TestHttpClient_WaitForHealthy(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := client.NewHttpClient(server.URL).WaitForHealthy(context.Background(), 3*time.Second); err != nil {
		t.Fatalf("WaitForHealthy() error = %v", err)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	if err := client.NewHttpClient(down.URL).WaitForHealthy(context.Background(), 700*time.Millisecond); err == nil {
		t.Error("expected timeout for an unhealthy service")
	}
}
