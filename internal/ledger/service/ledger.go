package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	ledgererrors "hotelledger/internal/ledger/errors"
	"hotelledger/internal/ledger/events"
	"hotelledger/internal/ledger/repository"
	"hotelledger/internal/ledger/validator"
	"hotelledger/pkg/config"
	apperrors "hotelledger/pkg/errors"
	"hotelledger/pkg/model"
	"hotelledger/pkg/sanitizer"

	"github.com/shopspring/decimal"
)

// LedgerService owns the rooms, users and bookings of one hotel. It is not
// safe for concurrent use; callers that share it must serialise access.
type LedgerService interface {
	CreateRoom(ctx context.Context, id int, roomType string, price decimal.Decimal) (*model.Room, error)
	UpdateRoom(ctx context.Context, id int, roomType string, price decimal.Decimal) (*model.Room, error)
	CreateUser(ctx context.Context, id int, balance decimal.Decimal) (*model.User, error)
	BookRoom(ctx context.Context, req model.BookingRequest) (*model.BookingReceipt, error)

	GetRoom(ctx context.Context, id int) (*model.Room, error)
	GetUser(ctx context.Context, id int) (*model.User, error)
	GetBooking(ctx context.Context, id int) (*model.Booking, error)

	ListAll(ctx context.Context) *model.LedgerSnapshot
	ListRooms(ctx context.Context) *model.RoomsReport
	ListUsers(ctx context.Context) []model.User
}

type Option func(*ledgerService)

// WithClock overrides the source of "today" used to reject past check-ins.
func WithClock(now func() time.Time) Option {
	return func(s *ledgerService) {
		s.now = now
	}
}

type ledgerService struct {
	rooms     repository.RoomRepository
	users     repository.UserRepository
	bookings  repository.BookingRepository
	validator *validator.LedgerValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time

	nextBookingID int
	userSequence  int
}

func NewLedgerService(
	rooms repository.RoomRepository,
	users repository.UserRepository,
	bookings repository.BookingRepository,
	validator *validator.LedgerValidator,
	publisher events.Publisher,
	cfg *config.Config,
	opts ...Option,
) LedgerService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	s := &ledgerService{
		rooms:         rooms,
		users:         users,
		bookings:      bookings,
		validator:     validator,
		publisher:     publisher,
		cfg:           cfg,
		now:           cfg.Clock(),
		nextBookingID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ledgerService) CreateRoom(ctx context.Context, id int, roomType string, price decimal.Decimal) (*model.Room, error) {
	room := &model.Room{
		ID:            id,
		Type:          sanitizer.NormalizeRoomType(roomType),
		PricePerNight: price,
	}

	if err := s.validator.ValidateRoom(room); err != nil {
		s.cfg.Log.Warn("Room validation failed",
			"room_id", id,
			"type", room.Type,
			"error", err,
		)
		return nil, validationError("Room validation failed", err)
	}

	room.CreatedAt = s.now().UTC()
	if err := s.rooms.Create(room); err != nil {
		if errors.Is(err, ledgererrors.ErrDuplicateID) {
			s.cfg.Log.Warn("Room already exists", "room_id", id)
			return nil, apperrors.DuplicateID("Room", id).WithCause(ledgererrors.ErrDuplicateID)
		}
		return nil, apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created successfully",
		"room_id", room.ID,
		"type", room.Type,
		"price_per_night", room.PricePerNight.StringFixed(2),
	)

	s.publish(ctx, events.TypeRoomCreated, roomKey(room.ID), room)
	return room, nil
}

// UpdateRoom replaces the type and nightly price of an existing room. Stored
// bookings keep the price they were charged.
func (s *ledgerService) UpdateRoom(ctx context.Context, id int, roomType string, price decimal.Decimal) (*model.Room, error) {
	update := &model.RoomUpdate{
		Type:          sanitizer.NormalizeRoomType(roomType),
		PricePerNight: price,
	}

	if err := s.validator.ValidateRoomUpdate(update); err != nil {
		s.cfg.Log.Warn("Room update validation failed",
			"room_id", id,
			"error", err,
		)
		return nil, validationError("Room update validation failed", err)
	}

	room, err := s.rooms.FindByID(id)
	if err != nil {
		s.cfg.Log.Warn("Room not found for update", "room_id", id)
		return nil, roomNotFound(id, err)
	}

	previousType, previousPrice := room.Type, room.PricePerNight
	room.Type = update.Type
	room.PricePerNight = update.PricePerNight

	if err := s.rooms.Update(room); err != nil {
		return nil, apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated successfully",
		"room_id", room.ID,
		"previous_type", previousType,
		"type", room.Type,
		"previous_price_per_night", previousPrice.StringFixed(2),
		"price_per_night", room.PricePerNight.StringFixed(2),
	)

	s.publish(ctx, events.TypeRoomUpdated, roomKey(room.ID), room)
	return room, nil
}

func (s *ledgerService) CreateUser(ctx context.Context, id int, balance decimal.Decimal) (*model.User, error) {
	user := &model.User{
		ID:      id,
		Balance: balance,
	}

	if err := s.validator.ValidateUser(user); err != nil {
		s.cfg.Log.Warn("User validation failed",
			"user_id", id,
			"error", err,
		)
		return nil, validationError("User validation failed", err)
	}

	user.Sequence = s.userSequence + 1
	user.CreatedAt = s.now().UTC()
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, ledgererrors.ErrDuplicateID) {
			s.cfg.Log.Warn("User already exists", "user_id", id)
			return nil, apperrors.DuplicateID("User", id).WithCause(ledgererrors.ErrDuplicateID)
		}
		return nil, apperrors.Internal("Failed to create user", err)
	}
	s.userSequence++

	s.cfg.Log.Info("User created successfully",
		"user_id", user.ID,
		"balance", user.Balance.StringFixed(2),
	)

	s.publish(ctx, events.TypeUserCreated, userKey(user.ID), user)
	return user, nil
}

// BookRoom charges the user for the stay and records the booking. Checks run
// in a fixed order and the first failure is returned; nothing is mutated
// unless every check passes.
func (s *ledgerService) BookRoom(ctx context.Context, req model.BookingRequest) (*model.BookingReceipt, error) {
	checkIn := model.NormalizeDate(req.CheckIn)
	checkOut := model.NormalizeDate(req.CheckOut)

	if !checkIn.Before(checkOut) {
		s.rejectBooking(req, ledgererrors.ErrInvalidDateRange)
		return nil, apperrors.InvalidInput("Check-in date must be before check-out date").
			WithDetails(map[string]any{
				"check_in":  model.FormatDate(checkIn),
				"check_out": model.FormatDate(checkOut),
			}).
			WithCause(ledgererrors.ErrInvalidDateRange)
	}

	today := model.NormalizeDate(s.now())
	if checkIn.Before(today) {
		s.rejectBooking(req, ledgererrors.ErrPastCheckIn)
		return nil, apperrors.InvalidInput("Check-in date cannot be in the past").
			WithDetails(map[string]any{
				"check_in": model.FormatDate(checkIn),
				"today":    model.FormatDate(today),
			}).
			WithCause(ledgererrors.ErrPastCheckIn)
	}

	user, err := s.users.FindByID(req.UserID)
	if err != nil {
		s.rejectBooking(req, err)
		return nil, userNotFound(req.UserID, err)
	}

	room, err := s.rooms.FindByID(req.RoomID)
	if err != nil {
		s.rejectBooking(req, err)
		return nil, roomNotFound(req.RoomID, err)
	}

	for _, existing := range s.bookings.FindByRoom(room.ID) {
		if existing.Overlaps(checkIn, checkOut) {
			s.rejectBooking(req, ledgererrors.ErrBookingConflict, "conflicting_booking_id", existing.ID)
			return nil, apperrors.Conflict(fmt.Sprintf("Room %d is not available for the requested dates", room.ID)).
				WithDetails(map[string]any{
					"room_id":                room.ID,
					"conflicting_booking_id": existing.ID,
				}).
				WithCause(ledgererrors.ErrBookingConflict)
		}
	}

	nights := model.NightsBetween(checkIn, checkOut)
	price := room.PriceFor(nights)

	if !user.CanAfford(price) {
		s.rejectBooking(req, ledgererrors.ErrInsufficientBalance,
			"price", price.StringFixed(2),
			"balance", user.Balance.StringFixed(2),
		)
		return nil, apperrors.InsufficientBalance(fmt.Sprintf("User %d has insufficient balance", user.ID)).
			WithDetails(map[string]any{
				"user_id": user.ID,
				"price":   price.StringFixed(2),
				"balance": user.Balance.StringFixed(2),
			}).
			WithCause(ledgererrors.ErrInsufficientBalance)
	}

	booking := &model.Booking{
		ID:         s.nextBookingID,
		UserID:     user.ID,
		RoomID:     room.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Nights:     nights,
		TotalPrice: price,
		CreatedAt:  s.now().UTC(),
	}
	balance := user.Balance.Sub(price)

	if err := s.charge(user, balance, booking); err != nil {
		s.cfg.Log.Error("Failed to record booking",
			"user_id", user.ID,
			"room_id", room.ID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to record booking", err)
	}
	s.nextBookingID++

	s.cfg.Log.Info("Booking created successfully",
		"booking_id", booking.ID,
		"user_id", user.ID,
		"room_id", room.ID,
		"check_in", model.FormatDate(checkIn),
		"check_out", model.FormatDate(checkOut),
		"nights", nights,
		"total_price", price.StringFixed(2),
		"balance", balance.StringFixed(2),
	)

	receipt := &model.BookingReceipt{Booking: *booking, Balance: balance}
	s.publish(ctx, events.TypeBookingCreated, roomKey(room.ID), receipt)
	return receipt, nil
}

// charge debits the user and appends the booking as one step: if the booking
// cannot be stored the previous balance is restored.
func (s *ledgerService) charge(user *model.User, balance decimal.Decimal, booking *model.Booking) error {
	if err := s.users.UpdateBalance(user.ID, balance); err != nil {
		return err
	}
	if err := s.bookings.Create(booking); err != nil {
		if rollbackErr := s.users.UpdateBalance(user.ID, user.Balance); rollbackErr != nil {
			return errors.Join(err, rollbackErr)
		}
		return err
	}
	return nil
}

func (s *ledgerService) GetRoom(ctx context.Context, id int) (*model.Room, error) {
	room, err := s.rooms.FindByID(id)
	if err != nil {
		return nil, roomNotFound(id, err)
	}
	return room, nil
}

func (s *ledgerService) GetUser(ctx context.Context, id int) (*model.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, userNotFound(id, err)
	}
	return user, nil
}

func (s *ledgerService) GetBooking(ctx context.Context, id int) (*model.Booking, error) {
	booking, err := s.bookings.FindByID(id)
	if err != nil {
		if errors.Is(err, ledgererrors.ErrBookingNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id).WithCause(ledgererrors.ErrBookingNotFound)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// ListAll returns every room and user by ascending id and every booking by
// ascending booking id.
func (s *ledgerService) ListAll(ctx context.Context) *model.LedgerSnapshot {
	snapshot := &model.LedgerSnapshot{
		Rooms:    make([]model.Room, 0, s.rooms.Count()),
		Users:    make([]model.User, 0, s.users.Count()),
		Bookings: make([]model.Booking, 0, s.bookings.Count()),
	}
	for _, room := range s.rooms.FindAll() {
		snapshot.Rooms = append(snapshot.Rooms, *room)
	}
	for _, user := range s.users.FindAll() {
		snapshot.Users = append(snapshot.Users, *user)
	}
	for _, booking := range s.bookings.FindAll() {
		snapshot.Bookings = append(snapshot.Bookings, *booking)
	}
	return snapshot
}

// ListRooms returns the rooms together with every booking joined to the
// current room and user records, earliest check-in first.
func (s *ledgerService) ListRooms(ctx context.Context) *model.RoomsReport {
	report := &model.RoomsReport{
		Rooms:    make([]model.Room, 0, s.rooms.Count()),
		Bookings: make([]model.BookingDetail, 0, s.bookings.Count()),
	}
	for _, room := range s.rooms.FindAll() {
		report.Rooms = append(report.Rooms, *room)
	}

	bookings := s.bookings.FindAll()
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].CheckIn.Equal(bookings[j].CheckIn) {
			return bookings[i].CheckIn.Before(bookings[j].CheckIn)
		}
		return bookings[i].ID < bookings[j].ID
	})

	for _, booking := range bookings {
		detail := model.BookingDetail{Booking: *booking}
		if user, err := s.users.FindByID(booking.UserID); err == nil {
			detail.User = user
		}
		if room, err := s.rooms.FindByID(booking.RoomID); err == nil {
			detail.Room = room
		}
		report.Bookings = append(report.Bookings, detail)
	}
	return report
}

// ListUsers returns users by descending id.
func (s *ledgerService) ListUsers(ctx context.Context) []model.User {
	all := s.users.FindAll()
	users := make([]model.User, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		users = append(users, *all[i])
	}
	return users
}

// publish announces a change that has already been applied. Delivery is best
// effort: a failure is logged and never reported to the caller.
func (s *ledgerService) publish(ctx context.Context, eventType, key string, payload any) {
	event := events.New(ctx, eventType, key, s.now(), payload)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish event",
			"event_type", eventType,
			"event_id", event.ID,
			"key", key,
			"error", err,
		)
	}
}

func (s *ledgerService) rejectBooking(req model.BookingRequest, reason error, args ...any) {
	fields := []any{
		"user_id", req.UserID,
		"room_id", req.RoomID,
		"check_in", model.FormatDate(req.CheckIn),
		"check_out", model.FormatDate(req.CheckOut),
		"reason", reason,
	}
	s.cfg.Log.Warn("Booking rejected", append(fields, args...)...)
}

func validationError(message string, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return apperrors.Validation(message, validationErrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func roomNotFound(id int, err error) error {
	if errors.Is(err, ledgererrors.ErrRoomNotFound) {
		return apperrors.NotFoundWithID("Room", id).WithCause(ledgererrors.ErrRoomNotFound)
	}
	return apperrors.Internal("Failed to retrieve room", err)
}

func userNotFound(id int, err error) error {
	if errors.Is(err, ledgererrors.ErrUserNotFound) {
		return apperrors.NotFoundWithID("User", id).WithCause(ledgererrors.ErrUserNotFound)
	}
	return apperrors.Internal("Failed to retrieve user", err)
}

func roomKey(id int) string {
	return "room-" + strconv.Itoa(id)
}

func userKey(id int) string {
	return "user-" + strconv.Itoa(id)
}
