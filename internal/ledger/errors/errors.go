package errors

import "errors"

var (
	ErrDuplicateID = errors.New("duplicate id")

	ErrRoomNotFound    = errors.New("room not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrBookingNotFound = errors.New("booking not found")

	ErrInvalidDateRange    = errors.New("check-in date must be before check-out date")
	ErrPastCheckIn         = errors.New("check-in date cannot be in the past")
	ErrBookingConflict     = errors.New("room is not available for the requested dates")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
