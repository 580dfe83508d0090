package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"hotelledger/pkg/model"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleBooking() model.Booking {
	return model.Booking{
		ID:         4,
		UserID:     2,
		RoomID:     1,
		CheckIn:    date(2026, 7, 7),
		CheckOut:   date(2026, 7, 9),
		Nights:     2,
		TotalPrice: decimal.NewFromInt(2000),
	}
}

func TestFormatters(t *testing.T) {
	room := &model.Room{ID: 1, Type: "standard", PricePerNight: decimal.RequireFromString("1000.5")}
	if got, want := FormatRoom(room), "Room 1: type=standard, price/night=1000.50, booked=false"; got != want {
		t.Errorf("FormatRoom() = %q, want %q", got, want)
	}

	user := &model.User{ID: 2, Balance: decimal.NewFromInt(10000)}
	if got, want := FormatUser(user), "User 2: balance=10000.00"; got != want {
		t.Errorf("FormatUser() = %q, want %q", got, want)
	}

	booking := sampleBooking()
	want := "Booking 4: user=2, room=1, check-in=2026-07-07, check-out=2026-07-09, nights=2, total=2000.00"
	if got := FormatBooking(&booking); got != want {
		t.Errorf("FormatBooking() = %q, want %q", got, want)
	}
}

func TestFormatBookingDetail(t *testing.T) {
	tests := []struct {
		name   string
		detail model.BookingDetail
		want   string
	}{
		{
			name: "joined",
			detail: model.BookingDetail{
				Booking: sampleBooking(),
				User:    &model.User{ID: 2, Balance: decimal.NewFromInt(8000)},
				Room:    &model.Room{ID: 1, Type: "suite", PricePerNight: decimal.NewFromInt(10000)},
			},
			want: "Booking ID: 4, User: User 2: balance=8000.00, Room: Room 1: type=suite, price/night=10000.00, booked=false, " +
				"Check-in: 2026-07-07, Check-out: 2026-07-09, Total Price: 2000.00",
		},
		{
			name:   "missing references",
			detail: model.BookingDetail{Booking: sampleBooking()},
			want:   "Booking ID: 4, User: N/A, Room: N/A, Check-in: 2026-07-07, Check-out: 2026-07-09, Total Price: 2000.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBookingDetail(&tt.detail); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestWriteAll_Empty(t *testing.T) {
	var sb strings.Builder
	if err := WriteAll(&sb, &model.LedgerSnapshot{}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	want := "\n--- All Rooms ---\nNo rooms available.\n" +
		"\n--- All Users ---\nNo users available.\n" +
		"\n--- All Bookings ---\nNo bookings available.\n"
	if sb.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestWriteAll(t *testing.T) {
	var sb strings.Builder
	snapshot := &model.LedgerSnapshot{
		Rooms:    []model.Room{{ID: 1, Type: "standard", PricePerNight: decimal.NewFromInt(1000)}},
		Users:    []model.User{{ID: 1, Balance: decimal.NewFromInt(4000)}},
		Bookings: []model.Booking{sampleBooking()},
	}
	if err := WriteAll(&sb, snapshot); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	out := sb.String()
	for _, want := range []string{
		"Room 1: type=standard",
		"User 1: balance=4000.00",
		"Booking 4: user=2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "available.") {
		t.Errorf("placeholders must not be printed for non-empty sections:\n%s", out)
	}
}

func TestWriteRoomsAndUsers(t *testing.T) {
	var sb strings.Builder
	if err := WriteRooms(&sb, &model.RoomsReport{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "No rooms available.") || !strings.Contains(sb.String(), "No bookings available.") {
		t.Errorf("unexpected empty rooms report:\n%s", sb.String())
	}

	sb.Reset()
	users := []model.User{{ID: 2, Balance: decimal.NewFromInt(1)}, {ID: 1, Balance: decimal.NewFromInt(2)}}
	if err := WriteUsers(&sb, users); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if strings.Index(out, "User 2") > strings.Index(out, "User 1") {
		t.Errorf("users must keep the given order:\n%s", out)
	}
}

func TestWriteReceipt(t *testing.T) {
	var sb strings.Builder
	receipt := &model.BookingReceipt{Booking: sampleBooking(), Balance: decimal.NewFromInt(8000)}
	if err := WriteReceipt(&sb, receipt); err != nil {
		t.Fatal(err)
	}
	want := "Booking successful: User 2 booked Room 1 from 2026-07-07 to 2026-07-09 for 2000.00.\n" +
		"User 2 new balance: 8000.00\n"
	if sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed pipe")
}

func TestWrite_PropagatesWriterError(t *testing.T) {
	if err := WriteAll(failingWriter{}, &model.LedgerSnapshot{}); err == nil {
		t.Error("expected writer error")
	}
}
