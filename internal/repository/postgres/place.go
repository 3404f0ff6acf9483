package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/places-server/internal/model"
)

var _ model.PlaceStore = (*PlaceRepository)(nil)

const placeColumns = `id, title, description, address, lat, lng, image_key, creator_id, created_at, updated_at`

type PlaceRepository struct {
	db *Connection
}

func NewPlaceRepository(db *Connection) *PlaceRepository {
	return &PlaceRepository{
		db: db,
	}
}

func scanPlace(row rowScanner) (model.Place, error) {
	var place model.Place
	err := row.Scan(
		&place.ID, &place.Title, &place.Description, &place.Address,
		&place.Location.Lat, &place.Location.Lng, &place.ImageKey, &place.CreatorID,
		&place.CreatedAt, &place.UpdatedAt,
	)
	return place, err
}

func (r *PlaceRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE id = $1`

	place, err := scanPlace(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Place{}, model.ErrNotFound
		}
		return model.Place{}, fmt.Errorf("failed to get place by id: %w", err)
	}

	return place, nil
}

// GetByIDWithOwner loads a place and its creator in one statement.
func (r *PlaceRepository) GetByIDWithOwner(ctx context.Context, id uuid.UUID) (model.Place, model.User, error) {
	query := `
		SELECT p.id, p.title, p.description, p.address, p.lat, p.lng, p.image_key, p.creator_id, p.created_at, p.updated_at,
		       u.id, u.name, u.email, u.password_hash, u.image_key, u.place_ids::text[], u.created_at, u.updated_at
		FROM places p
		JOIN users u ON u.id = p.creator_id
		WHERE p.id = $1`

	var (
		place  model.Place
		owner  model.User
		places []string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&place.ID, &place.Title, &place.Description, &place.Address,
		&place.Location.Lat, &place.Location.Lng, &place.ImageKey, &place.CreatorID,
		&place.CreatedAt, &place.UpdatedAt,
		&owner.ID, &owner.Name, &owner.Email, &owner.PasswordHash, &owner.ImageKey,
		&places, &owner.CreatedAt, &owner.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Place{}, model.User{}, model.ErrNotFound
		}
		return model.Place{}, model.User{}, fmt.Errorf("failed to get place with owner: %w", err)
	}

	owner.Places, err = parseUUIDs(places)
	if err != nil {
		return model.Place{}, model.User{}, err
	}

	return place, owner, nil
}

// GetByIDs returns the existing places among ids, in the order of ids.
func (r *PlaceRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Place, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + placeColumns + ` FROM places WHERE id = ANY($1::text[]::uuid[])`

	rows, err := r.db.Query(ctx, query, uuidStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get places by ids: %w", err)
	}
	defer rows.Close()

	var places []model.Place
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, place)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get places by ids: %w", err)
	}

	slices.SortFunc(places, func(a, b model.Place) int {
		return slices.Index(ids, a.ID) - slices.Index(ids, b.ID)
	})

	return places, nil
}

func (r *PlaceRepository) Insert(ctx context.Context, tx model.Tx, place model.Place) (model.Place, error) {
	query := `INSERT INTO places (id, title, description, address, lat, lng, image_key, creator_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + placeColumns

	saved, err := scanPlace(tx.QueryRow(ctx, query,
		place.ID, place.Title, place.Description, place.Address,
		place.Location.Lat, place.Location.Lng, place.ImageKey, place.CreatorID,
		place.CreatedAt, place.UpdatedAt,
	))
	if err != nil {
		return model.Place{}, fmt.Errorf("failed to insert place: %w", classify(err))
	}

	return saved, nil
}

// Update writes title and description only; every other column is immutable.
func (r *PlaceRepository) Update(ctx context.Context, tx model.Tx, place model.Place) (model.Place, error) {
	query := `UPDATE places SET title = $2, description = $3, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + placeColumns

	saved, err := scanPlace(tx.QueryRow(ctx, query, place.ID, place.Title, place.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Place{}, model.ErrNotFound
		}
		return model.Place{}, fmt.Errorf("failed to update place: %w", classify(err))
	}

	return saved, nil
}

func (r *PlaceRepository) Remove(ctx context.Context, tx model.Tx, id uuid.UUID) error {
	const query = `DELETE FROM places WHERE id = $1`

	cmd, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to remove place: %w", classify(err))
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
