package repository

import (
	"context"

	"claif-api/entities"
)

func (r *repo) CreateAudioFile(ctx context.Context, audioFile *entities.AudioFile) error {
	return r.conn(ctx).Create(audioFile).Error
}

func (r *repo) FindAudioFileByID(ctx context.Context, id uint) (*entities.AudioFile, error) {
	audioFile := &entities.AudioFile{}
	err := r.conn(ctx).First(audioFile, "id = ? AND is_deleted = ?", id, false).Error
	if err != nil {
		return nil, err
	}
	return audioFile, nil
}

func (r *repo) SetAudioFileDeleted(ctx context.Context, id uint) error {
	return r.conn(ctx).Model(&entities.AudioFile{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
