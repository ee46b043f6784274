package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"claif-api/entities"
	"claif-api/repository"
)

type UserService interface {
	GetOrCreate(ctx context.Context, keycloakID, username string) (*entities.User, error)
}

type userService struct {
	repo repository.Repository
}

func NewUserService(repo repository.Repository) UserService {
	return &userService{repo: repo}
}

// GetOrCreate resolves the local user row for an identity-provider subject,
// creating it on first sight. Token validation happened upstream; only the
// subject id and username reach this service.
func (s *userService) GetOrCreate(ctx context.Context, keycloakID, username string) (*entities.User, error) {
	user, err := s.repo.FindUserByKeycloakID(ctx, keycloakID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if username == "" {
		username = keycloakID
	}
	user = &entities.User{KeycloakID: keycloakID, Username: username}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		// lost a create race; the row exists now
		if existing, findErr := s.repo.FindUserByKeycloakID(ctx, keycloakID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return user, nil
}
