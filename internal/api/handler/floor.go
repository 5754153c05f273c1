package handler

import (
	"net/http"

	"github.com/roomstack/roombook/internal/api/response"
	"github.com/roomstack/roombook/internal/domain"
	"github.com/roomstack/roombook/internal/service"
)

// FloorHandler handles floor catalog endpoints
type FloorHandler struct {
	floorService *service.FloorService
}

// NewFloorHandler creates a new floor handler
func NewFloorHandler(floorService *service.FloorService) *FloorHandler {
	return &FloorHandler{floorService: floorService}
}

// Create handles floor creation, optionally with inline rooms
func (h *FloorHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var input domain.FloorCreate
	if !bindJSON(w, r, &input) {
		return
	}

	floor, rooms, err := h.floorService.CreateFloor(r.Context(), principal, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]any{
		"floor": floor,
		"rooms": rooms,
	})
}

// List returns all floors
func (h *FloorHandler) List(w http.ResponseWriter, r *http.Request) {
	floors, err := h.floorService.ListFloors(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"floors": floors,
		"count":  len(floors),
	})
}

// Get returns one floor
func (h *FloorHandler) Get(w http.ResponseWriter, r *http.Request) {
	floorID, ok := uuidParam(w, r, "floorID")
	if !ok {
		return
	}

	floor, err := h.floorService.GetFloor(r.Context(), floorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{"floor": floor})
}

// Update applies a partial floor update
func (h *FloorHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	floorID, ok := uuidParam(w, r, "floorID")
	if !ok {
		return
	}

	var patch domain.FloorUpdate
	if !bindJSON(w, r, &patch) {
		return
	}

	floor, err := h.floorService.UpdateFloor(r.Context(), principal, floorID, patch)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{"floor": floor})
}

// Delete removes a floor and its rooms
func (h *FloorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	floorID, ok := uuidParam(w, r, "floorID")
	if !ok {
		return
	}

	if err := h.floorService.DeleteFloor(r.Context(), principal, floorID); err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{"message": "floor deleted"})
}

// ListRooms returns all rooms on a floor
func (h *FloorHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	floorID, ok := uuidParam(w, r, "floorID")
	if !ok {
		return
	}

	rooms, err := h.floorService.ListRooms(r.Context(), floorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// CreateRoom adds a room to a floor
func (h *FloorHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	floorID, ok := uuidParam(w, r, "floorID")
	if !ok {
		return
	}

	var input domain.RoomCreate
	if !bindJSON(w, r, &input) {
		return
	}

	room, err := h.floorService.CreateRoom(r.Context(), principal, floorID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]any{"room": room})
}
