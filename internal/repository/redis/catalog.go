package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/roomstack/roombook/internal/domain"
)

const (
	floorListKey    = "catalog:floors"
	floorRoomsKey   = "catalog:floor-rooms:"
	catalogCacheTTL = 5 * time.Minute
)

// CatalogCache caches the read-mostly floor/room catalog in Redis. Entries
// are invalidated on admin CRUD; readers tolerate the staleness window
// because the authoritative conflict check happens at booking write time.
type CatalogCache struct {
	client *Client
}

// NewCatalogCache creates a new catalog cache
func NewCatalogCache(client *Client) *CatalogCache {
	return &CatalogCache{client: client}
}

// GetFloors retrieves the cached floor list; a miss returns nil, nil
func (c *CatalogCache) GetFloors(ctx context.Context) ([]domain.Floor, error) {
	data, err := c.client.rdb.Get(ctx, floorListKey).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var floors []domain.Floor
	if err := json.Unmarshal(data, &floors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal floors: %w", err)
	}

	return floors, nil
}

// SetFloors caches the floor list
func (c *CatalogCache) SetFloors(ctx context.Context, floors []domain.Floor) error {
	data, err := json.Marshal(floors)
	if err != nil {
		return fmt.Errorf("failed to marshal floors: %w", err)
	}

	return c.client.rdb.Set(ctx, floorListKey, data, catalogCacheTTL).Err()
}

// GetFloorRooms retrieves the cached room list for a floor; a miss returns
// nil, nil
func (c *CatalogCache) GetFloorRooms(ctx context.Context, floorID uuid.UUID) ([]domain.Room, error) {
	data, err := c.client.rdb.Get(ctx, floorRoomsKey+floorID.String()).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var rooms []domain.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rooms: %w", err)
	}

	return rooms, nil
}

// SetFloorRooms caches the room list for a floor
func (c *CatalogCache) SetFloorRooms(ctx context.Context, floorID uuid.UUID, rooms []domain.Room) error {
	data, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("failed to marshal rooms: %w", err)
	}

	return c.client.rdb.Set(ctx, floorRoomsKey+floorID.String(), data, catalogCacheTTL).Err()
}

// InvalidateFloors drops the cached floor list
func (c *CatalogCache) InvalidateFloors(ctx context.Context) error {
	return c.client.rdb.Del(ctx, floorListKey).Err()
}

// InvalidateFloorRooms drops the cached room list for a floor
func (c *CatalogCache) InvalidateFloorRooms(ctx context.Context, floorID uuid.UUID) error {
	return c.client.rdb.Del(ctx, floorRoomsKey+floorID.String()).Err()
}
