package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PlaceStore defines persistence operations for places.
// Mutating operations run inside a caller-supplied transaction.
type PlaceStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (Place, error)
	GetByIDWithOwner(ctx context.Context, id uuid.UUID) (Place, User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Place, error)
	Insert(ctx context.Context, tx Tx, place Place) (Place, error)
	Update(ctx context.Context, tx Tx, place Place) (Place, error)
	Remove(ctx context.Context, tx Tx, id uuid.UUID) error
}

// Location is a geographic point derived from an address.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place represents a shared location owned by exactly one user.
type Place struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Location    Location  `json:"location"`
	ImageKey    string    `json:"image"`
	CreatorID   uuid.UUID `json:"creator"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreatePlaceParams contains parameters to create a place.
// ImageKey references an object already written to the image store.
type CreatePlaceParams struct {
	Title       string
	Description string
	Address     string
	CreatorID   uuid.UUID
	ImageKey    string
}

// UpdatePlaceParams contains the only fields a place update may change.
type UpdatePlaceParams struct {
	PlaceID     uuid.UUID
	CallerID    uuid.UUID
	Title       string
	Description string
}
