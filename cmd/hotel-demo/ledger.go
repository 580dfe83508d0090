package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hotelledger/internal/ledger/service"
	"hotelledger/pkg/client"
	"hotelledger/pkg/model"
)

// Ledger is the set of operations the scenario drives, served either by an
// in-process service or by a remote hotel-api.
type Ledger interface {
	CreateRoom(ctx context.Context, id int, roomType string, price decimal.Decimal) error
	UpdateRoom(ctx context.Context, id int, roomType string, price decimal.Decimal) error
	CreateUser(ctx context.Context, id int, balance decimal.Decimal) error
	BookRoom(ctx context.Context, userID, roomID int, checkIn, checkOut time.Time) (*model.BookingReceipt, error)
	Snapshot(ctx context.Context) (*model.LedgerSnapshot, error)
	Rooms(ctx context.Context) (*model.RoomsReport, error)
	Users(ctx context.Context) ([]model.User, error)
}

type LocalLedger struct {
	service service.LedgerService
}

func NewLocalLedger(svc service.LedgerService) *LocalLedger {
	return &LocalLedger{service: svc}
}

func (l *LocalLedger) CreateRoom(ctx context.Context, id int, roomType string, price decimal.Decimal) error {
	_, err := l.service.CreateRoom(ctx, id, roomType, price)
	return err
}

func (l *LocalLedger) UpdateRoom(ctx context.Context, id int, roomType string, price decimal.Decimal) error {
	_, err := l.service.UpdateRoom(ctx, id, roomType, price)
	return err
}

func (l *LocalLedger) CreateUser(ctx context.Context, id int, balance decimal.Decimal) error {
	_, err := l.service.CreateUser(ctx, id, balance)
	return err
}

func (l *LocalLedger) BookRoom(ctx context.Context, userID, roomID int, checkIn, checkOut time.Time) (*model.BookingReceipt, error) {
	return l.service.BookRoom(ctx, model.BookingRequest{
		UserID:   userID,
		RoomID:   roomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
}

func (l *LocalLedger) Snapshot(ctx context.Context) (*model.LedgerSnapshot, error) {
	return l.service.ListAll(ctx), nil
}

func (l *LocalLedger) Rooms(ctx context.Context) (*model.RoomsReport, error) {
	return l.service.ListRooms(ctx), nil
}

func (l *LocalLedger) Users(ctx context.Context) ([]model.User, error) {
	return l.service.ListUsers(ctx), nil
}

type RemoteLedger struct {
	client *client.LedgerClient
}

func NewRemoteLedger(c *client.LedgerClient) *RemoteLedger {
	return &RemoteLedger{client: c}
}

func (l *RemoteLedger) CreateRoom(ctx context.Context, id int, roomType string, price decimal.Decimal) error {
	_, err := l.client.CreateRoom(ctx, id, roomType, price)
	return err
}

func (l *RemoteLedger) UpdateRoom(ctx context.Context, id int, roomType string, price decimal.Decimal) error {
	_, err := l.client.UpdateRoom(ctx, id, roomType, price)
	return err
}

func (l *RemoteLedger) CreateUser(ctx context.Context, id int, balance decimal.Decimal) error {
	_, err := l.client.CreateUser(ctx, id, balance)
	return err
}

// BookRoom sends each attempt with a fresh idempotency key so a transport
// retry cannot charge the guest twice.
func (l *RemoteLedger) BookRoom(ctx context.Context, userID, roomID int, checkIn, checkOut time.Time) (*model.BookingReceipt, error) {
	return l.client.BookRoom(ctx, model.BookingInput{
		UserID:   userID,
		RoomID:   roomID,
		CheckIn:  model.FormatDate(checkIn),
		CheckOut: model.FormatDate(checkOut),
	}, uuid.NewString())
}

func (l *RemoteLedger) Snapshot(ctx context.Context) (*model.LedgerSnapshot, error) {
	return l.client.Ledger(ctx)
}

func (l *RemoteLedger) Rooms(ctx context.Context) (*model.RoomsReport, error) {
	return l.client.ListRooms(ctx)
}

func (l *RemoteLedger) Users(ctx context.Context) ([]model.User, error) {
	return l.client.ListUsers(ctx)
}
