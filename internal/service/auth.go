package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/places-server/internal/apierror"
	"github.com/dtroode/places-server/internal/logger"
	"github.com/dtroode/places-server/internal/model"
)

const (
	// MinPasswordLength is the shortest password accepted at signup.
	MinPasswordLength = 6
	// MaxPasswordBytes is the longest password, in bytes, accepted at signup.
	MaxPasswordBytes = 72
)

// Auth registers and logs in users.
type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	images       model.ImageStore
	tokenService *TokenService
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	images model.ImageStore,
	tokenService *TokenService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		images:       images,
		tokenService: tokenService,
		logger:       logger,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a user and returns a session for it. The profile image
// referenced by params.ImageKey is deleted if the user is not created.
func (a *Auth) Signup(ctx context.Context, params model.SignupParams) (model.Session, error) {
	email := NormalizeEmail(params.Email)

	a.logger.Debug("Auth service: starting user registration",
		"login", email)

	user, err := a.createUser(ctx, email, params)
	if err != nil {
		a.discardImage(ctx, params.ImageKey)
		return model.Session{}, err
	}

	token, err := a.tokenService.Issue(ctx, user.ID, user.Email)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, apierror.NewErrPersistence("signing up", err)
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"login", email,
		"user_id", user.ID)

	return model.Session{UserID: user.ID, Email: user.Email, Token: token}, nil
}

func (a *Auth) createUser(ctx context.Context, email string, params model.SignupParams) (model.User, error) {
	if len(params.Password) < MinPasswordLength {
		return model.User{}, apierror.NewErrValidation("password must be at least 6 characters long")
	}
	if len(params.Password) > MaxPasswordBytes {
		return model.User{}, apierror.NewErrValidation("password must be at most 72 bytes long")
	}

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"login", email)
		return model.User{}, apierror.NewErrEmailIsTaken(email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"login", email,
			"error", err.Error())
		return model.User{}, apierror.NewErrPersistence("signing up", err)
	}

	hash, err := a.hasher.Hash(params.Password)
	if errors.Is(err, model.ErrPasswordTooLong) {
		return model.User{}, apierror.NewErrValidation("password must be at most 72 bytes long")
	}
	if err != nil {
		return model.User{}, apierror.NewErrPersistence("signing up", err)
	}

	now := time.Now().UTC()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        email,
		PasswordHash: hash,
		ImageKey:     params.ImageKey,
		Places:       []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return model.User{}, apierror.NewErrEmailIsTaken(email)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"login", email,
			"error", err.Error())
		return model.User{}, apierror.NewErrPersistence("signing up", err)
	}

	return user, nil
}

// Login checks the credentials and returns a new session. Unknown emails and
// wrong passwords produce the same error.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = NormalizeEmail(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, apierror.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"login", email,
			"error", err.Error())
		return model.Session{}, apierror.NewErrPersistence("logging in", err)
	}

	ok, err := a.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		a.logger.Error("Auth service: failed to verify password",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, apierror.NewErrPersistence("logging in", err)
	}
	if !ok {
		return model.Session{}, apierror.NewErrInvalidCredentials()
	}

	token, err := a.tokenService.Issue(ctx, user.ID, user.Email)
	if err != nil {
		return model.Session{}, apierror.NewErrPersistence("logging in", err)
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID)

	return model.Session{UserID: user.ID, Email: user.Email, Token: token}, nil
}

func (a *Auth) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := a.images.Delete(context.WithoutCancel(ctx), key); err != nil {
		a.logger.Error("Auth service: failed to delete profile image",
			"image_key", key,
			"error", err.Error())
	}
}
