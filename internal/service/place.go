package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/places-server/internal/apierror"
	"github.com/dtroode/places-server/internal/authz"
	"github.com/dtroode/places-server/internal/logger"
	"github.com/dtroode/places-server/internal/model"
	"github.com/dtroode/places-server/internal/monitoring"
)

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// Place keeps places, their owners' back-references and their images consistent.
// Create and Delete write both the place and the owner in one transaction.
// Images are deleted outside of it: before returning a failed Create and
// after a committed Delete.
type Place struct {
	placeStore model.PlaceStore
	userStore  model.UserStore
	transactor model.Transactor
	geocoder   model.Geocoder
	images     model.ImageStore
	metrics    *monitoring.Metrics
	logger     *logger.Logger
}

func NewPlace(
	placeStore model.PlaceStore,
	userStore model.UserStore,
	transactor model.Transactor,
	geocoder model.Geocoder,
	images model.ImageStore,
	metrics *monitoring.Metrics,
	logger *logger.Logger,
) *Place {
	return &Place{
		placeStore: placeStore,
		userStore:  userStore,
		transactor: transactor,
		geocoder:   geocoder,
		images:     images,
		metrics:    metrics,
		logger:     logger,
	}
}

// Create stores a new place for params.CreatorID. The image referenced by
// params.ImageKey belongs to the place from now on; on any failure it is
// deleted before the error is returned.
func (s *Place) Create(ctx context.Context, params model.CreatePlaceParams) (place model.Place, err error) {
	defer func() { s.metrics.ObserveLifecycle(opCreate, err) }()

	s.logger.Debug("Place service: creating place",
		"user_id", params.CreatorID,
		"image_key", params.ImageKey)

	_, err = s.userStore.GetByID(ctx, params.CreatorID)
	if err != nil {
		s.discardImage(ctx, params.ImageKey, opCreate)
		if errors.Is(err, model.ErrNotFound) {
			return model.Place{}, apierror.NewErrOwnerNotFound(params.CreatorID)
		}
		s.logger.Error("Place service: failed to get owner",
			"user_id", params.CreatorID,
			"error", err.Error())
		return model.Place{}, apierror.NewErrPersistence("creating place", err)
	}

	location, err := s.geocoder.Geocode(ctx, params.Address)
	if err != nil {
		s.logger.Warn("Place service: failed to geocode address",
			"address", params.Address,
			"error", err.Error())
		s.discardImage(ctx, params.ImageKey, opCreate)
		return model.Place{}, apierror.NewErrGeocode(params.Address, err)
	}

	now := time.Now().UTC()
	place = model.Place{
		ID:          uuid.New(),
		Title:       params.Title,
		Description: params.Description,
		Address:     params.Address,
		Location:    location,
		ImageKey:    params.ImageKey,
		CreatorID:   params.CreatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx model.Tx) error {
		created, err := s.placeStore.Insert(ctx, tx, place)
		if err != nil {
			return fmt.Errorf("failed to insert place: %w", err)
		}
		if err := s.userStore.AddPlace(ctx, tx, params.CreatorID, created.ID); err != nil {
			return fmt.Errorf("failed to add place to owner: %w", err)
		}
		place = created
		return nil
	})
	if err != nil {
		s.logger.Error("Place service: failed to create place",
			"place_id", place.ID,
			"user_id", params.CreatorID,
			"error", err.Error())
		s.discardImage(ctx, params.ImageKey, opCreate)
		if errors.Is(err, model.ErrNotFound) {
			return model.Place{}, apierror.NewErrOwnerNotFound(params.CreatorID)
		}
		return model.Place{}, txError("creating place", err)
	}

	s.logger.Info("Place service: place created",
		"place_id", place.ID,
		"user_id", place.CreatorID)

	return place, nil
}

// Update changes title and description of a place owned by params.CallerID.
// Location, image and creator are never modified.
func (s *Place) Update(ctx context.Context, params model.UpdatePlaceParams) (place model.Place, err error) {
	defer func() { s.metrics.ObserveLifecycle(opUpdate, err) }()

	place, err = s.placeStore.GetByID(ctx, params.PlaceID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Place{}, apierror.NewErrPlaceNotFound(params.PlaceID)
	}
	if err != nil {
		s.logger.Error("Place service: failed to get place",
			"place_id", params.PlaceID,
			"error", err.Error())
		return model.Place{}, apierror.NewErrPersistence("updating place", err)
	}

	if authz.Authorize(params.CallerID, place.CreatorID) != authz.Allowed {
		s.logger.Info("Place service: update denied",
			"place_id", place.ID,
			"user_id", params.CallerID)
		return model.Place{}, apierror.NewErrDenied(place.ID)
	}

	place.Title = params.Title
	place.Description = params.Description
	place.UpdatedAt = time.Now().UTC()

	var updated model.Place
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx model.Tx) error {
		var err error
		updated, err = s.placeStore.Update(ctx, tx, place)
		return err
	})
	if errors.Is(err, model.ErrNotFound) {
		return model.Place{}, apierror.NewErrPlaceNotFound(place.ID)
	}
	if err != nil {
		s.logger.Error("Place service: failed to update place",
			"place_id", place.ID,
			"error", err.Error())
		return model.Place{}, txError("updating place", err)
	}

	return updated, nil
}

// Delete removes a place owned by callerID together with its owner's
// back-reference. The image is deleted only after the removal committed;
// a failed image deletion is logged and does not fail the call.
func (s *Place) Delete(ctx context.Context, placeID, callerID uuid.UUID) (err error) {
	defer func() { s.metrics.ObserveLifecycle(opDelete, err) }()

	place, owner, err := s.placeStore.GetByIDWithOwner(ctx, placeID)
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NewErrPlaceNotFound(placeID)
	}
	if err != nil {
		s.logger.Error("Place service: failed to get place with owner",
			"place_id", placeID,
			"error", err.Error())
		return apierror.NewErrPersistence("deleting place", err)
	}

	if authz.Authorize(callerID, owner.ID) != authz.Allowed {
		s.logger.Info("Place service: delete denied",
			"place_id", place.ID,
			"user_id", callerID)
		return apierror.NewErrDenied(place.ID)
	}

	imageKey := place.ImageKey

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx model.Tx) error {
		if err := s.placeStore.Remove(ctx, tx, place.ID); err != nil {
			return fmt.Errorf("failed to remove place: %w", err)
		}
		if err := s.userStore.RemovePlace(ctx, tx, owner.ID, place.ID); err != nil {
			return fmt.Errorf("failed to remove place from owner: %w", err)
		}
		return nil
	})
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NewErrPlaceNotFound(place.ID)
	}
	if err != nil {
		s.logger.Error("Place service: failed to delete place",
			"place_id", place.ID,
			"error", err.Error())
		return txError("deleting place", err)
	}

	s.discardImage(ctx, imageKey, opDelete)

	s.logger.Info("Place service: place deleted",
		"place_id", place.ID,
		"user_id", owner.ID)

	return nil
}

func (s *Place) GetPlaceByID(ctx context.Context, placeID uuid.UUID) (model.Place, error) {
	place, err := s.placeStore.GetByID(ctx, placeID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Place{}, apierror.NewErrPlaceNotFound(placeID)
	}
	if err != nil {
		s.logger.Error("Place service: failed to get place",
			"place_id", placeID,
			"error", err.Error())
		return model.Place{}, apierror.NewErrPersistence("fetching place", err)
	}

	return place, nil
}

// GetPlacesByUserID returns the places of a user in the order of the user's
// back-reference list. A user without places is reported as not found.
func (s *Place) GetPlacesByUserID(ctx context.Context, userID uuid.UUID) ([]model.Place, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, apierror.NewErrUserNotFound(userID)
	}
	if err != nil {
		s.logger.Error("Place service: failed to get user",
			"user_id", userID,
			"error", err.Error())
		return nil, apierror.NewErrPersistence("fetching places", err)
	}

	if len(user.Places) == 0 {
		return nil, apierror.NewErrNoPlacesForUser(userID)
	}

	places, err := s.placeStore.GetByIDs(ctx, user.Places)
	if err != nil {
		s.logger.Error("Place service: failed to get places",
			"user_id", userID,
			"error", err.Error())
		return nil, apierror.NewErrPersistence("fetching places", err)
	}
	if len(places) == 0 {
		return nil, apierror.NewErrNoPlacesForUser(userID)
	}

	return places, nil
}

// discardImage deletes key with a context that survives request cancellation.
// Failures are logged and counted, never returned.
func (s *Place) discardImage(ctx context.Context, key, operation string) {
	if key == "" {
		return
	}

	if err := s.images.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Error("Place service: failed to delete image",
			"image_key", key,
			"operation", operation,
			"error", err.Error())
		s.metrics.ImageCleanupFailed(operation)
	}
}

// txError converts a failed transaction into a conflict or persistence failure.
func txError(op string, err error) *apierror.APIError {
	if errors.Is(err, model.ErrConflict) {
		return apierror.NewErrConflict(op, err)
	}
	return apierror.NewErrPersistence(op, err)
}
