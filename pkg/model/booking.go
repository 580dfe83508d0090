package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID         int             `json:"id"`
	UserID     int             `json:"user_id"`
	RoomID     int             `json:"room_id"`
	CheckIn    time.Time       `json:"check_in"`
	CheckOut   time.Time       `json:"check_out"`
	Nights     int             `json:"nights"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Overlaps reports whether the booking shares at least one night with the
// half-open range [checkIn, checkOut).
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckIn.Before(checkOut) && checkIn.Before(b.CheckOut)
}

type BookingRequest struct {
	UserID   int
	RoomID   int
	CheckIn  time.Time
	CheckOut time.Time
}

// BookingReceipt is the result of a successful booking: the stored booking
// and the guest's balance after the charge.
type BookingReceipt struct {
	Booking Booking         `json:"booking"`
	Balance decimal.Decimal `json:"balance"`
}

// BookingDetail joins a booking with the current room and user records.
// Either side is nil when the referenced entity is missing.
type BookingDetail struct {
	Booking Booking `json:"booking"`
	User    *User   `json:"user,omitempty"`
	Room    *Room   `json:"room,omitempty"`
}

type RoomsReport struct {
	Rooms    []Room          `json:"rooms"`
	Bookings []BookingDetail `json:"bookings"`
}

type LedgerSnapshot struct {
	Rooms    []Room    `json:"rooms"`
	Users    []User    `json:"users"`
	Bookings []Booking `json:"bookings"`
}

// BookingInput is the wire form of a booking request; dates are YYYY-MM-DD.
type BookingInput struct {
	UserID   int    `json:"user_id"`
	RoomID   int    `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

func (in BookingInput) Parse() (BookingRequest, error) {
	checkIn, err := ParseDate(in.CheckIn)
	if err != nil {
		return BookingRequest{}, err
	}
	checkOut, err := ParseDate(in.CheckOut)
	if err != nil {
		return BookingRequest{}, err
	}
	return BookingRequest{
		UserID:   in.UserID,
		RoomID:   in.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}, nil
}
