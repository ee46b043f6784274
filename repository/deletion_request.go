package repository

import (
	"context"
	"time"

	"claif-api/entities"
)

func (r *repo) CreateDeletionRequest(ctx context.Context, request *entities.DeletionRequest) error {
	return r.conn(ctx).Create(request).Error
}

func (r *repo) FindDeletionRequestByID(ctx context.Context, id uint) (*entities.DeletionRequest, error) {
	request := &entities.DeletionRequest{}
	err := r.conn(ctx).First(request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repo) MarkDeletionRequestProcessed(ctx context.Context, id uint) error {
	now := time.Now().UTC()
	return r.conn(ctx).Model(&entities.DeletionRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed":    true,
			"processed_at": now,
		}).Error
}
