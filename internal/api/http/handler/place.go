package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dtroode/places-server/internal/api/http/response"
	"github.com/dtroode/places-server/internal/apierror"
	"github.com/dtroode/places-server/internal/logger"
	"github.com/dtroode/places-server/internal/model"
)

// PlaceService is the place lifecycle used by the Place handler.
type PlaceService interface {
	Create(ctx context.Context, params model.CreatePlaceParams) (model.Place, error)
	Update(ctx context.Context, params model.UpdatePlaceParams) (model.Place, error)
	Delete(ctx context.Context, placeID, callerID uuid.UUID) error
	GetPlaceByID(ctx context.Context, placeID uuid.UUID) (model.Place, error)
	GetPlacesByUserID(ctx context.Context, userID uuid.UUID) ([]model.Place, error)
}

// ImageUploader stores an uploaded image and returns its key.
type ImageUploader interface {
	Store(ctx context.Context, r io.Reader) (string, error)
}

type createPlaceRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required,min=5"`
	Address     string `json:"address" validate:"required"`
}

type updatePlaceRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required,min=5"`
}

type placeResponse struct {
	Place model.Place `json:"place"`
}

type placesResponse struct {
	Places []model.Place `json:"places"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Place serves the /api/places routes.
type Place struct {
	placeService   PlaceService
	uploader       ImageUploader
	contextManager model.ContextManager
	validate       *validator.Validate
	maxImageBytes  int64
	logger         *logger.Logger
}

func NewPlace(
	placeService PlaceService,
	uploader ImageUploader,
	contextManager model.ContextManager,
	maxImageBytes int64,
	logger *logger.Logger,
) *Place {
	return &Place{
		placeService:   placeService,
		uploader:       uploader,
		contextManager: contextManager,
		validate:       newValidator(),
		maxImageBytes:  maxImageBytes,
		logger:         logger,
	}
}

func (h *Place) GetPlaceByID(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathUUID(r, "pid")
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}

	place, err := h.placeService.GetPlaceByID(r.Context(), placeID)
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusOK, placeResponse{Place: place})
}

func (h *Place) GetPlacesByUserID(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "uid")
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}

	places, err := h.placeService.GetPlacesByUserID(r.Context(), userID)
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusOK, placesResponse{Places: places})
}

// CreatePlace validates the form fields before the image is stored, so an
// invalid request never leaves an upload behind.
func (h *Place) CreatePlace(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		response.Error(w, apierror.NewErrMissingAuthorizationToken(), h.logger)
		return
	}

	file, err := parseMultipart(w, r, h.maxImageBytes)
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}
	defer file.Close()
	defer r.MultipartForm.RemoveAll()

	req := createPlaceRequest{
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		Address:     formValue(r, "address"),
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, validationError(err), h.logger)
		return
	}

	imageKey, err := h.uploader.Store(r.Context(), file)
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}

	place, err := h.placeService.Create(r.Context(), model.CreatePlaceParams{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		CreatorID:   callerID,
		ImageKey:    imageKey,
	})
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusCreated, placeResponse{Place: place})
}

func (h *Place) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		response.Error(w, apierror.NewErrMissingAuthorizationToken(), h.logger)
		return
	}

	placeID, err := pathUUID(r, "pid")
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}

	var req updatePlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.NewErrValidation("invalid request body"), h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, validationError(err), h.logger)
		return
	}

	place, err := h.placeService.Update(r.Context(), model.UpdatePlaceParams{
		PlaceID:     placeID,
		CallerID:    callerID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusOK, placeResponse{Place: place})
}

func (h *Place) DeletePlace(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		response.Error(w, apierror.NewErrMissingAuthorizationToken(), h.logger)
		return
	}

	placeID, err := pathUUID(r, "pid")
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}

	if err := h.placeService.Delete(r.Context(), placeID, callerID); err != nil {
		response.Error(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusOK, messageResponse{Message: "Deleted place."})
}
