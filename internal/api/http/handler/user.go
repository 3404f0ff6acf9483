package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/places-server/internal/api/http/response"
	"github.com/dtroode/places-server/internal/apierror"
	"github.com/dtroode/places-server/internal/logger"
	"github.com/dtroode/places-server/internal/model"
)

type AuthService interface {
	Signup(ctx context.Context, params model.SignupParams) (model.Session, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
}

type UserService interface {
	List(ctx context.Context) ([]model.User, error)
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type usersResponse struct {
	Users []model.User `json:"users"`
}

// User serves the /api/users routes.
type User struct {
	authService   AuthService
	userService   UserService
	uploader      ImageUploader
	validate      *validator.Validate
	maxImageBytes int64
	logger        *logger.Logger
}

func NewUser(
	authService AuthService,
	userService UserService,
	uploader ImageUploader,
	maxImageBytes int64,
	logger *logger.Logger,
) *User {
	return &User{
		authService:   authService,
		userService:   userService,
		uploader:      uploader,
		validate:      newValidator(),
		maxImageBytes: maxImageBytes,
		logger:        logger,
	}
}

func (h *User) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusOK, usersResponse{Users: users})
}

func (h *User) Signup(w http.ResponseWriter, r *http.Request) {
	file, err := parseMultipart(w, r, h.maxImageBytes)
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}
	defer file.Close()
	defer r.MultipartForm.RemoveAll()

	req := signupRequest{
		Name:     formValue(r, "name"),
		Email:    formValue(r, "email"),
		Password: r.FormValue("password"),
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

	session, err := h.authService.Signup(r.Context(), model.SignupParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		ImageKey: imageKey,
	})
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusCreated, session)
}

func (h *User) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.NewErrValidation("invalid request body"), h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, validationError(err), h.logger)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusOK, session)
}
