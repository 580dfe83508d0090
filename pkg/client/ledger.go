package client

import (
	"context"
	"fmt"
	"net/http"

	"hotelledger/pkg/model"

	"github.com/shopspring/decimal"
)

// APIError is a non-2xx response from the hotel API.
type APIError struct {
	StatusCode int
	Code       string         `json:"code"`
	Message    string         `json:"error"`
	Details    map[string]any `json:"details"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hotel api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// LedgerClient is a typed client for the hotel ledger HTTP API.
type LedgerClient struct {
	httpClient *HttpClient
}

func NewLedgerClient(baseURL string) *LedgerClient {
	return &LedgerClient{httpClient: NewHttpClient(baseURL)}
}

func (c *LedgerClient) HTTP() *HttpClient {
	return c.httpClient
}

func (c *LedgerClient) CreateRoom(ctx context.Context, id int, roomType string, price decimal.Decimal) (*model.Room, error) {
	body := model.Room{ID: id, Type: roomType, PricePerNight: price}
	var room model.Room
	if err := c.do(ctx, http.MethodPost, "/api/v1/rooms", body, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *LedgerClient) UpdateRoom(ctx context.Context, id int, roomType string, price decimal.Decimal) (*model.Room, error) {
	body := model.RoomUpdate{Type: roomType, PricePerNight: price}
	var room model.Room
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/rooms/%d", id), body, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *LedgerClient) GetRoom(ctx context.Context, id int) (*model.Room, error) {
	var room model.Room
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%d", id), nil, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *LedgerClient) ListRooms(ctx context.Context) (*model.RoomsReport, error) {
	var report model.RoomsReport
	if err := c.do(ctx, http.MethodGet, "/api/v1/rooms", nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *LedgerClient) CreateUser(ctx context.Context, id int, balance decimal.Decimal) (*model.User, error) {
	body := model.User{ID: id, Balance: balance}
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/api/v1/users", body, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *LedgerClient) GetUser(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", id), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *LedgerClient) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// BookRoom books a stay. A non-empty idempotencyKey makes retries safe.
func (c *LedgerClient) BookRoom(ctx context.Context, input model.BookingInput, idempotencyKey string) (*model.BookingReceipt, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	var receipt model.BookingReceipt
	if err := c.do(ctx, http.MethodPost, "/api/v1/bookings", input, headers, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *LedgerClient) GetBooking(ctx context.Context, id int) (*model.Booking, error) {
	var booking model.Booking
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", id), nil, nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *LedgerClient) Ledger(ctx context.Context) (*model.LedgerSnapshot, error) {
	var snapshot model.LedgerSnapshot
	if err := c.do(ctx, http.MethodGet, "/api/v1/ledger", nil, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *LedgerClient) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	var (
		resp *Response
		err  error
	)
	switch method {
	case http.MethodGet:
		resp, err = c.httpClient.GET(ctx, path)
	case http.MethodPut:
		resp, err = c.httpClient.PUT(ctx, path, body)
	default:
		resp, err = c.httpClient.POST(ctx, path, body, headers)
	}
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := resp.DecodeJSON(apiErr); err != nil {
			apiErr.Message = string(resp.Body)
		}
		return apiErr
	}

	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := resp.DecodeJSON(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
