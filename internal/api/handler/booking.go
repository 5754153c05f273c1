package handler

import (
	"net/http"

	"github.com/roomstack/roombook/internal/api/response"
	"github.com/roomstack/roombook/internal/domain"
	"github.com/roomstack/roombook/internal/service"
)

// BookingHandler handles booking endpoints
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create books a room
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	roomID, ok := uuidParam(w, r, "roomID")
	if !ok {
		return
	}

	var input domain.BookingCreate
	if !bindJSON(w, r, &input) {
		return
	}

	booking, err := h.bookingService.Create(r.Context(), principal, roomID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]any{"booking": booking})
}

// Update applies a partial booking update
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	bookingID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var patch domain.BookingUpdate
	if !bindJSON(w, r, &patch) {
		return
	}

	booking, err := h.bookingService.Update(r.Context(), principal, bookingID, patch)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{"booking": booking})
}

// Cancel marks a booking cancelled
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	bookingID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	booking, err := h.bookingService.Cancel(r.Context(), principal, bookingID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"message": "booking cancelled",
		"booking": booking,
	})
}

// ListForUser returns a user's upcoming bookings
func (h *BookingHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	userID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListForUser(r.Context(), principal, userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// ListAll returns every upcoming booking, admins only
func (h *BookingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListAll(r.Context(), principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"bookings": bookings,
		"count":    len(bookings),
	})
}
