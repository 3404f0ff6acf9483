package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/places-server/internal/model"
)

// PlaceService mocks the place lifecycle consumed by HTTP handlers.
type PlaceService struct {
	mock.Mock
}

func NewPlaceService(t testingT) *PlaceService {
	m := &PlaceService{}
	register(t, &m.Mock)
	return m
}

func (m *PlaceService) Create(ctx context.Context, params model.CreatePlaceParams) (model.Place, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Place), args.Error(1)
}

func (m *PlaceService) Update(ctx context.Context, params model.UpdatePlaceParams) (model.Place, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Place), args.Error(1)
}

func (m *PlaceService) Delete(ctx context.Context, placeID, callerID uuid.UUID) error {
	args := m.Called(ctx, placeID, callerID)
	return args.Error(0)
}

func (m *PlaceService) GetPlaceByID(ctx context.Context, placeID uuid.UUID) (model.Place, error) {
	args := m.Called(ctx, placeID)
	return args.Get(0).(model.Place), args.Error(1)
}

func (m *PlaceService) GetPlacesByUserID(ctx context.Context, userID uuid.UUID) ([]model.Place, error) {
	args := m.Called(ctx, userID)
	places, _ := args.Get(0).([]model.Place)
	return places, args.Error(1)
}

// AuthService mocks signup and login.
type AuthService struct {
	mock.Mock
}

func NewAuthService(t testingT) *AuthService {
	m := &AuthService{}
	register(t, &m.Mock)
	return m
}

func (m *AuthService) Signup(ctx context.Context, params model.SignupParams) (model.Session, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *AuthService) Login(ctx context.Context, email, password string) (model.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.Session), args.Error(1)
}

// UserService mocks user listing.
type UserService struct {
	mock.Mock
}

func NewUserService(t testingT) *UserService {
	m := &UserService{}
	register(t, &m.Mock)
	return m
}

func (m *UserService) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

// ImageUploader mocks the upload collaborator.
type ImageUploader struct {
	mock.Mock
}

func NewImageUploader(t testingT) *ImageUploader {
	m := &ImageUploader{}
	register(t, &m.Mock)
	return m
}

func (m *ImageUploader) Store(ctx context.Context, r io.Reader) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

// Pinger mocks a dependency health check.
type Pinger struct {
	mock.Mock
}

func NewPinger(t testingT) *Pinger {
	m := &Pinger{}
	register(t, &m.Mock)
	return m
}

func (m *Pinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
