// Package report renders ledger listings as console text.
package report

import (
	"fmt"
	"io"

	"hotelledger/pkg/model"
)

const notAvailable = "N/A"

// printer remembers the first write error so rendering code can stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) section(title string) {
	p.printf("\n--- %s ---\n", title)
}

func FormatRoom(r *model.Room) string {
	return fmt.Sprintf("Room %d: type=%s, price/night=%s, booked=%t",
		r.ID, r.Type, r.PricePerNight.StringFixed(2), r.Booked)
}

func FormatUser(u *model.User) string {
	return fmt.Sprintf("User %d: balance=%s", u.ID, u.Balance.StringFixed(2))
}

func FormatBooking(b *model.Booking) string {
	return fmt.Sprintf("Booking %d: user=%d, room=%d, check-in=%s, check-out=%s, nights=%d, total=%s",
		b.ID, b.UserID, b.RoomID,
		model.FormatDate(b.CheckIn), model.FormatDate(b.CheckOut),
		b.Nights, b.TotalPrice.StringFixed(2))
}

// FormatBookingDetail renders a booking with the current state of its user
// and room; a missing side prints as N/A.
func FormatBookingDetail(d *model.BookingDetail) string {
	user, room := notAvailable, notAvailable
	if d.User != nil {
		user = FormatUser(d.User)
	}
	if d.Room != nil {
		room = FormatRoom(d.Room)
	}
	return fmt.Sprintf("Booking ID: %d, User: %s, Room: %s, Check-in: %s, Check-out: %s, Total Price: %s",
		d.Booking.ID, user, room,
		model.FormatDate(d.Booking.CheckIn), model.FormatDate(d.Booking.CheckOut),
		d.Booking.TotalPrice.StringFixed(2))
}

// WriteAll prints every room, user and booking.
func WriteAll(w io.Writer, snapshot *model.LedgerSnapshot) error {
	p := &printer{w: w}

	p.section("All Rooms")
	if len(snapshot.Rooms) == 0 {
		p.printf("No rooms available.\n")
	}
	for i := range snapshot.Rooms {
		p.printf("%s\n", FormatRoom(&snapshot.Rooms[i]))
	}

	p.section("All Users")
	if len(snapshot.Users) == 0 {
		p.printf("No users available.\n")
	}
	for i := range snapshot.Users {
		p.printf("%s\n", FormatUser(&snapshot.Users[i]))
	}

	p.section("All Bookings")
	if len(snapshot.Bookings) == 0 {
		p.printf("No bookings available.\n")
	}
	for i := range snapshot.Bookings {
		p.printf("%s\n", FormatBooking(&snapshot.Bookings[i]))
	}

	return p.err
}

// WriteRooms prints the rooms followed by the joined bookings, earliest
// check-in first.
func WriteRooms(w io.Writer, report *model.RoomsReport) error {
	p := &printer{w: w}

	p.section("All Rooms")
	if len(report.Rooms) == 0 {
		p.printf("No rooms available.\n")
	}
	for i := range report.Rooms {
		p.printf("%s\n", FormatRoom(&report.Rooms[i]))
	}

	p.section("All Bookings (sorted by check-in date)")
	if len(report.Bookings) == 0 {
		p.printf("No bookings available.\n")
	}
	for i := range report.Bookings {
		p.printf("%s\n", FormatBookingDetail(&report.Bookings[i]))
	}

	return p.err
}

// WriteUsers prints users in the order given, newest id first as returned by
// the ledger.
func WriteUsers(w io.Writer, users []model.User) error {
	p := &printer{w: w}

	p.section("All Users (sorted by id, highest first)")
	if len(users) == 0 {
		p.printf("No users available.\n")
	}
	for i := range users {
		p.printf("%s\n", FormatUser(&users[i]))
	}

	return p.err
}

// WriteReceipt prints the outcome of a successful booking.
func WriteReceipt(w io.Writer, receipt *model.BookingReceipt) error {
	p := &printer{w: w}
	b := receipt.Booking
	p.printf("Booking successful: User %d booked Room %d from %s to %s for %s.\n",
		b.UserID, b.RoomID, model.FormatDate(b.CheckIn), model.FormatDate(b.CheckOut), b.TotalPrice.StringFixed(2))
	p.printf("User %d new balance: %s\n", b.UserID, receipt.Balance.StringFixed(2))
	return p.err
}
