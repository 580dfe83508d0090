package repository

import (
	"fmt"
	"sort"

	ledgererrors "hotelledger/internal/ledger/errors"
	"hotelledger/pkg/model"
)

// BookingRepository is append-only: bookings are never updated or removed.
type BookingRepository interface {
	Create(booking *model.Booking) error
	FindByID(id int) (*model.Booking, error)
	FindByRoom(roomID int) []*model.Booking
	FindAll() []*model.Booking
	Count() int
}

type memoryBookingRepository struct {
	bookings map[int]model.Booking
	byRoom   map[int][]int
}

func NewMemoryBookingRepository() BookingRepository {
	return &memoryBookingRepository{
		bookings: make(map[int]model.Booking),
		byRoom:   make(map[int][]int),
	}
}

func (r *memoryBookingRepository) Create(booking *model.Booking) error {
	if _, exists := r.bookings[booking.ID]; exists {
		return fmt.Errorf("booking %d: %w", booking.ID, ledgererrors.ErrDuplicateID)
	}
	r.bookings[booking.ID] = *booking
	r.byRoom[booking.RoomID] = append(r.byRoom[booking.RoomID], booking.ID)
	return nil
}

func (r *memoryBookingRepository) FindByID(id int) (*model.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, ledgererrors.ErrBookingNotFound
	}
	return &booking, nil
}

func (r *memoryBookingRepository) FindByRoom(roomID int) []*model.Booking {
	ids := r.byRoom[roomID]
	result := make([]*model.Booking, 0, len(ids))
	for _, id := range ids {
		booking := r.bookings[id]
		result = append(result, &booking)
	}
	return result
}

// FindAll returns copies of every booking ordered by booking id.
func (r *memoryBookingRepository) FindAll() []*model.Booking {
	result := make([]*model.Booking, 0, len(r.bookings))
	for _, booking := range r.bookings {
		result = append(result, &booking)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *memoryBookingRepository) Count() int {
	return len(r.bookings)
}
