package repository

import (
	"context"

	"claif-api/entities"
)

func (r *repo) FindUserByKeycloakID(ctx context.Context, keycloakID string) (*entities.User, error) {
	user := &entities.User{}
	err := r.conn(ctx).First(user, "keycloak_id = ?", keycloakID).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repo) CreateUser(ctx context.Context, user *entities.User) error {
	return r.conn(ctx).Create(user).Error
}
