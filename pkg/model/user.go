package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID      int             `json:"id" validate:"gt=0"`
	Balance decimal.Decimal `json:"balance" validate:"nonnegative"`
	// Sequence is the 1-based creation order. IDs are caller-supplied and
	// carry no ordering guarantee.
	Sequence  int       `json:"sequence"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) CanAfford(amount decimal.Decimal) bool {
	return u.Balance.GreaterThanOrEqual(amount)
}
