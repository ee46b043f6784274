package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"claif-api/config"
	"claif-api/entities"
	"claif-api/repository"
)

type AudioService interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, creatorID uint, filename, contentType string, data []byte) (*entities.AudioFile, error)
}

type audioService struct {
	repo repository.Repository
	cfg  *config.Config
}

func NewAudioService(repo repository.Repository, cfg *config.Config) AudioService {
	return &audioService{repo: repo, cfg: cfg}
}

func (s *audioService) EnsureBucket(ctx context.Context) error {
	exists, err := s.cfg.Storage.BucketExists(ctx, s.cfg.MinIOBucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.cfg.Storage.MakeBucket(ctx, s.cfg.MinIOBucket, minio.MakeBucketOptions{})
}

// Upload stores the audio binary in object storage and records its metadata.
// The object name carries a uuid so repeated uploads of the same filename
// never collide.
func (s *audioService) Upload(ctx context.Context, creatorID uint, filename, contentType string, data []byte) (*entities.AudioFile, error) {
	objectName := fmt.Sprintf("audio/%s_%s", uuid.New().String(), filepath.Base(filename))

	zerolog.Ctx(ctx).Info().Str("object", objectName).Int("size", len(data)).Msg("uploading audio file")
	_, err := s.cfg.Storage.PutObject(ctx, s.cfg.MinIOBucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("object", objectName).Msg("failed to upload audio file")
		return nil, err
	}

	audioFile := &entities.AudioFile{
		Title:       filename,
		ObjectName:  objectName,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		CreatorID:   creatorID,
	}
	if err := s.repo.CreateAudioFile(ctx, audioFile); err != nil {
		return nil, err
	}
	return audioFile, nil
}
