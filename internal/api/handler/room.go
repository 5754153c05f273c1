package handler

import (
	"net/http"

	"github.com/roomstack/roombook/internal/api/response"
	"github.com/roomstack/roombook/internal/domain"
	"github.com/roomstack/roombook/internal/service"
)

// RoomHandler handles room catalog and availability endpoints
type RoomHandler struct {
	floorService        *service.FloorService
	availabilityService *service.AvailabilityService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(floorService *service.FloorService, availabilityService *service.AvailabilityService) *RoomHandler {
	return &RoomHandler{
		floorService:        floorService,
		availabilityService: availabilityService,
	}
}

// Get returns one room
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID, ok := uuidParam(w, r, "roomID")
	if !ok {
		return
	}

	room, err := h.floorService.GetRoom(r.Context(), roomID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{"room": room})
}

// Update applies a partial room update
func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	roomID, ok := uuidParam(w, r, "roomID")
	if !ok {
		return
	}

	var patch domain.RoomUpdate
	if !bindJSON(w, r, &patch) {
		return
	}

	room, err := h.floorService.UpdateRoom(r.Context(), principal, roomID, patch)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{"room": room})
}

// Delete removes a room
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	roomID, ok := uuidParam(w, r, "roomID")
	if !ok {
		return
	}

	if err := h.floorService.DeleteRoom(r.Context(), principal, roomID); err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{"message": "room deleted"})
}

// Available searches for rooms free over a window with enough capacity and
// the requested features
func (h *RoomHandler) Available(w http.ResponseWriter, r *http.Request) {
	var query domain.AvailabilityQuery
	if !bindJSON(w, r, &query) {
		return
	}

	rooms, err := h.availabilityService.Search(r.Context(), query)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"rooms": rooms,
		"count": len(rooms),
	})
}
