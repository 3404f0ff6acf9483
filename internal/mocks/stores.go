package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/places-server/internal/model"
)

var (
	_ model.UserStore  = (*UserStore)(nil)
	_ model.PlaceStore = (*PlaceStore)(nil)
	_ model.ImageStore = (*ImageStore)(nil)
	_ model.Geocoder   = (*Geocoder)(nil)
)

// UserStore mocks model.UserStore.
type UserStore struct {
	mock.Mock
}

func NewUserStore(t testingT) *UserStore {
	m := &UserStore{}
	register(t, &m.Mock)
	return m
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) AddPlace(ctx context.Context, tx model.Tx, userID, placeID uuid.UUID) error {
	args := m.Called(ctx, tx, userID, placeID)
	return args.Error(0)
}

func (m *UserStore) RemovePlace(ctx context.Context, tx model.Tx, userID, placeID uuid.UUID) error {
	args := m.Called(ctx, tx, userID, placeID)
	return args.Error(0)
}

// PlaceStore mocks model.PlaceStore.
type PlaceStore struct {
	mock.Mock
}

func NewPlaceStore(t testingT) *PlaceStore {
	m := &PlaceStore{}
	register(t, &m.Mock)
	return m
}

func (m *PlaceStore) GetByID(ctx context.Context, id uuid.UUID) (model.Place, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Place), args.Error(1)
}

func (m *PlaceStore) GetByIDWithOwner(ctx context.Context, id uuid.UUID) (model.Place, model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Place), args.Get(1).(model.User), args.Error(2)
}

func (m *PlaceStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Place, error) {
	args := m.Called(ctx, ids)
	places, _ := args.Get(0).([]model.Place)
	return places, args.Error(1)
}

func (m *PlaceStore) Insert(ctx context.Context, tx model.Tx, place model.Place) (model.Place, error) {
	args := m.Called(ctx, tx, place)
	return args.Get(0).(model.Place), args.Error(1)
}

func (m *PlaceStore) Update(ctx context.Context, tx model.Tx, place model.Place) (model.Place, error) {
	args := m.Called(ctx, tx, place)
	return args.Get(0).(model.Place), args.Error(1)
}

func (m *PlaceStore) Remove(ctx context.Context, tx model.Tx, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// ImageStore mocks model.ImageStore.
type ImageStore struct {
	mock.Mock
}

func NewImageStore(t testingT) *ImageStore {
	m := &ImageStore{}
	register(t, &m.Mock)
	return m
}

func (m *ImageStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *ImageStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *ImageStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *ImageStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// Geocoder mocks model.Geocoder.
type Geocoder struct {
	mock.Mock
}

func NewGeocoder(t testingT) *Geocoder {
	m := &Geocoder{}
	register(t, &m.Mock)
	return m
}

func (m *Geocoder) Geocode(ctx context.Context, address string) (model.Location, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(model.Location), args.Error(1)
}
