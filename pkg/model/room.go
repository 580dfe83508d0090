package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Room struct {
	ID            int             `json:"id" validate:"gt=0"`
	Type          string          `json:"type" validate:"required,max=64"`
	PricePerNight decimal.Decimal `json:"price_per_night" validate:"nonnegative"`
	// Booked is never driven by booking logic; availability is decided by date overlap.
	Booked    bool      `json:"booked"`
	CreatedAt time.Time `json:"created_at"`
}

type RoomUpdate struct {
	Type          string          `json:"type" validate:"required,max=64"`
	PricePerNight decimal.Decimal `json:"price_per_night" validate:"nonnegative"`
}

// PriceFor returns the total cost of staying the given number of nights at
// the room's current rate.
func (r *Room) PriceFor(nights int) decimal.Decimal {
	return r.PricePerNight.Mul(decimal.NewFromInt(int64(nights)))
}
