package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"medlink-backend/internal/domains/user"
	"medlink-backend/internal/shared/httperror"
)

type ServiceInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*user.ProfileDTO, error)
}

type UserService struct {
	repository user.Repository
}

func NewUserService(repository user.Repository) ServiceInterface {
	return &UserService{repository: repository}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.ProfileDTO, error) {
	u, err := s.repository.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			// session outlived the account
			return nil, httperror.Unauthorized()
		}
		return nil, err
	}
	profile := u.ToProfileDTO()
	return &profile, nil
}
