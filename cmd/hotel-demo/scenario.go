package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"hotelledger/internal/ledger/report"
	"hotelledger/pkg/client"
	apperrors "hotelledger/pkg/errors"
)

type roomSeed struct {
	id       int
	roomType string
	price    int64
}

type userSeed struct {
	id      int
	balance int64
}

type attempt struct {
	label    string
	userID   int
	roomID   int
	checkIn  time.Time
	checkOut time.Time
}

func day(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	scenarioRooms = []roomSeed{
		{id: 1, roomType: "standard", price: 1000},
		{id: 2, roomType: "junior", price: 2000},
		{id: 3, roomType: "suite", price: 3000},
	}

	scenarioUsers = []userSeed{
		{id: 1, balance: 5000},
		{id: 2, balance: 10000},
	}

	scenarioAttempts = []attempt{
		{label: "check-in after check-out", userID: 1, roomID: 2, checkIn: day(time.August, 30), checkOut: day(time.July, 7)},
		{label: "check-out before check-in", userID: 1, roomID: 2, checkIn: day(time.July, 7), checkOut: day(time.June, 30)},
		{label: "7 nights", userID: 1, roomID: 2, checkIn: day(time.July, 7), checkOut: day(time.July, 14)},
		{label: "1 night", userID: 1, roomID: 1, checkIn: day(time.July, 7), checkOut: day(time.July, 8)},
		{label: "2 nights, overlaps attempt 4", userID: 2, roomID: 1, checkIn: day(time.July, 7), checkOut: day(time.July, 9)},
		{label: "1 night", userID: 2, roomID: 3, checkIn: day(time.July, 7), checkOut: day(time.July, 8)},
	}
)

// RunScenario creates three rooms and two users, runs six booking attempts
// (two with inverted dates, one unaffordable, one conflicting), reprices
// room 1 and prints the final state. Rejected operations are reported and the
// scenario carries on; only listing failures abort it.
func RunScenario(ctx context.Context, ledger Ledger, out io.Writer) error {
	fmt.Fprintln(out, "--- Creating Rooms ---")
	for _, r := range scenarioRooms {
		price := decimal.NewFromInt(r.price)
		if err := ledger.CreateRoom(ctx, r.id, r.roomType, price); err != nil {
			fmt.Fprintf(out, "Error: %s\n", describe(err))
			continue
		}
		fmt.Fprintf(out, "Room %d added successfully.\n", r.id)
	}
	if err := printRooms(ctx, ledger, out); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n--- Creating Users ---")
	for _, u := range scenarioUsers {
		balance := decimal.NewFromInt(u.balance)
		if err := ledger.CreateUser(ctx, u.id, balance); err != nil {
			fmt.Fprintf(out, "Error: %s\n", describe(err))
			continue
		}
		fmt.Fprintf(out, "User %d added successfully with balance %s.\n", u.id, balance.StringFixed(2))
	}
	if err := printUsers(ctx, ledger, out); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n--- Booking Attempts ---")
	for i, a := range scenarioAttempts {
		fmt.Fprintf(out, "\nAttempt %d: User %d booking Room %d from %s to %s (%s)\n",
			i+1, a.userID, a.roomID, a.checkIn.Format("02/01/2006"), a.checkOut.Format("02/01/2006"), a.label)

		receipt, err := ledger.BookRoom(ctx, a.userID, a.roomID, a.checkIn, a.checkOut)
		if err != nil {
			fmt.Fprintf(out, "Booking failed: %s\n", describe(err))
			continue
		}
		if err := report.WriteReceipt(out, receipt); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "\n--- Updating Room 1 ---")
	newPrice := decimal.NewFromInt(10000)
	if err := ledger.UpdateRoom(ctx, 1, "suite", newPrice); err != nil {
		fmt.Fprintf(out, "Error: %s\n", describe(err))
	} else {
		fmt.Fprintf(out, "Room 1 updated to type suite, price/night %s\n", newPrice.StringFixed(2))
	}
	if err := printRooms(ctx, ledger, out); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n--- Final State (all) ---")
	snapshot, err := ledger.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ledger: %w", err)
	}
	if err := report.WriteAll(out, snapshot); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n--- Final State (users) ---")
	return printUsers(ctx, ledger, out)
}

func printRooms(ctx context.Context, ledger Ledger, out io.Writer) error {
	rooms, err := ledger.Rooms(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rooms: %w", err)
	}
	return report.WriteRooms(out, rooms)
}

func printUsers(ctx context.Context, ledger Ledger, out io.Writer) error {
	users, err := ledger.Users(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	return report.WriteUsers(out, users)
}

// describe extracts the user-facing message from local and remote errors.
func describe(err error) string {
	if appErr := apperrors.AsAppError(err); appErr != nil {
		return appErr.Message
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
