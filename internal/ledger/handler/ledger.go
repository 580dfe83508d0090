package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"

	"hotelledger/internal/ledger/service"
	apperrors "hotelledger/pkg/errors"
	httputil "hotelledger/pkg/http"
	"hotelledger/pkg/logger"
	"hotelledger/pkg/model"
)

type createRoomRequest struct {
	ID            int             `json:"id"`
	Type          string          `json:"type"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
}

type createUserRequest struct {
	ID      int             `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}

// LedgerHandler exposes the ledger over JSON. The ledger is single-threaded,
// so every call into it holds mu.
type LedgerHandler struct {
	mu      sync.Mutex
	service service.LedgerService
	log     *logger.Logger
}

func NewLedgerHandler(service service.LedgerService, log *logger.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: service,
		log:     log,
	}
}

func (h *LedgerHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/rooms", h.CreateRoom)
	router.GET("/api/v1/rooms", h.ListRooms)
	router.GET("/api/v1/rooms/:id", h.GetRoom)
	router.PUT("/api/v1/rooms/:id", h.UpdateRoom)

	router.POST("/api/v1/users", h.CreateUser)
	router.GET("/api/v1/users", h.ListUsers)
	router.GET("/api/v1/users/:id", h.GetUser)

	router.POST("/api/v1/bookings", h.BookRoom)
	router.GET("/api/v1/bookings/:id", h.GetBooking)

	router.GET("/api/v1/ledger", h.ListAll)
}

// lockLive takes the ledger lock for a write. A request whose context ended
// while it waited is turned away before it can change the ledger.
func (h *LedgerHandler) lockLive(r *http.Request) error {
	h.mu.Lock()
	if err := r.Context().Err(); err != nil {
		h.mu.Unlock()
		return apperrors.Timeout("Request expired before the ledger could be updated")
	}
	return nil
}

func (h *LedgerHandler) CreateRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createRoomRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, "CreateRoom", err)
		return
	}

	if err := h.lockLive(r); err != nil {
		h.writeError(w, "CreateRoom", err)
		return
	}
	room, err := h.service.CreateRoom(r.Context(), req.ID, req.Type, req.PricePerNight)
	h.mu.Unlock()
	if err != nil {
		h.writeError(w, "CreateRoom", err)
		return
	}

	if err := httputil.WriteCreated(w, room); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateRoom", "operation", "WriteCreated", "error", err)
	}
}

func (h *LedgerHandler) UpdateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps)
	if err != nil {
		h.writeError(w, "UpdateRoom", err)
		return
	}

	var update model.RoomUpdate
	if err := decodeBody(r, &update); err != nil {
		h.writeError(w, "UpdateRoom", err)
		return
	}

	if err := h.lockLive(r); err != nil {
		h.writeError(w, "UpdateRoom", err)
		return
	}
	room, err := h.service.UpdateRoom(r.Context(), id, update.Type, update.PricePerNight)
	h.mu.Unlock()
	if err != nil {
		h.writeError(w, "UpdateRoom", err)
		return
	}

	h.writeSuccess(w, "UpdateRoom", room)
}

func (h *LedgerHandler) GetRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps)
	if err != nil {
		h.writeError(w, "GetRoom", err)
		return
	}

	h.mu.Lock()
	room, err := h.service.GetRoom(r.Context(), id)
	h.mu.Unlock()
	if err != nil {
		h.writeError(w, "GetRoom", err)
		return
	}

	h.writeSuccess(w, "GetRoom", room)
}

func (h *LedgerHandler) ListRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.mu.Lock()
	report := h.service.ListRooms(r.Context())
	h.mu.Unlock()

	h.writeSuccess(w, "ListRooms", report)
}

func (h *LedgerHandler) CreateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, "CreateUser", err)
		return
	}

	if err := h.lockLive(r); err != nil {
		h.writeError(w, "CreateUser", err)
		return
	}
	user, err := h.service.CreateUser(r.Context(), req.ID, req.Balance)
	h.mu.Unlock()
	if err != nil {
		h.writeError(w, "CreateUser", err)
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateUser", "operation", "WriteCreated", "error", err)
	}
}

func (h *LedgerHandler) GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps)
	if err != nil {
		h.writeError(w, "GetUser", err)
		return
	}

	h.mu.Lock()
	user, err := h.service.GetUser(r.Context(), id)
	h.mu.Unlock()
	if err != nil {
		h.writeError(w, "GetUser", err)
		return
	}

	h.writeSuccess(w, "GetUser", user)
}

func (h *LedgerHandler) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.mu.Lock()
	users := h.service.ListUsers(r.Context())
	h.mu.Unlock()

	h.writeSuccess(w, "ListUsers", users)
}

func (h *LedgerHandler) BookRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input model.BookingInput
	if err := decodeBody(r, &input); err != nil {
		h.writeError(w, "BookRoom", err)
		return
	}

	req, err := input.Parse()
	if err != nil {
		h.writeError(w, "BookRoom", apperrors.InvalidInput(err.Error()))
		return
	}

	if err := h.lockLive(r); err != nil {
		h.writeError(w, "BookRoom", err)
		return
	}
	receipt, err := h.service.BookRoom(r.Context(), req)
	h.mu.Unlock()
	if err != nil {
		h.writeError(w, "BookRoom", err)
		return
	}

	if err := httputil.WriteCreated(w, receipt); err != nil {
		h.log.Error("failed to write created response", "handler", "BookRoom", "operation", "WriteCreated", "error", err)
	}
}

func (h *LedgerHandler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps)
	if err != nil {
		h.writeError(w, "GetBooking", err)
		return
	}

	h.mu.Lock()
	booking, err := h.service.GetBooking(r.Context(), id)
	h.mu.Unlock()
	if err != nil {
		h.writeError(w, "GetBooking", err)
		return
	}

	h.writeSuccess(w, "GetBooking", booking)
}

func (h *LedgerHandler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.mu.Lock()
	snapshot := h.service.ListAll(r.Context())
	h.mu.Unlock()

	h.writeSuccess(w, "ListAll", snapshot)
}

func (h *LedgerHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *LedgerHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return apperrors.New(apperrors.CodeInvalidInput, "Request body too large", http.StatusRequestEntityTooLarge).
				WithDetails(map[string]any{"max_bytes": maxBytesErr.Limit})
		}
		return apperrors.InvalidInput("Invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}
	return nil
}

func parseID(ps httprouter.Params) (int, error) {
	raw := ps.ByName("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid id parameter: %s", raw))
	}
	return id, nil
}
