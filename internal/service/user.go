package service

import (
	"context"

	"github.com/dtroode/places-server/internal/apierror"
	"github.com/dtroode/places-server/internal/logger"
	"github.com/dtroode/places-server/internal/model"
)

type User struct {
	userStore model.UserStore
	logger    *logger.Logger
}

func NewUser(userStore model.UserStore, logger *logger.Logger) *User {
	return &User{userStore: userStore, logger: logger}
}

// List returns all users. Password hashes are never serialized.
func (s *User) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		s.logger.Error("User service: failed to list users", "error", err.Error())
		return nil, apierror.NewErrPersistence("fetching users", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}
