package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/places-server/internal/apierror"
	"github.com/dtroode/places-server/internal/logger"
	"github.com/dtroode/places-server/internal/model"
)

// TokenService issues access tokens and resolves them back to user ids.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	access, err := s.manager.GenerateAccessToken(userID, email)
	if err != nil {
		return "", fmt.Errorf("issue access: %w", err)
	}
	return access, nil
}

// GetUserID returns the user the token was issued to.
func (s *TokenService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	userID, err := s.manager.ParseAccessToken(token)
	if err != nil {
		s.logger.Debug("Token service: rejected token", "error", err.Error())
		return uuid.Nil, apierror.NewErrInvalidAuthorizationToken()
	}
	return userID, nil
}
