package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"claif-api/constant"
	"claif-api/dto"
	"claif-api/entities"
	"claif-api/repository"
)

// DeletionPublisher is the queue side of the deletion workflow; satisfied
// by pkg/rabbitmq.Publisher.
type DeletionPublisher interface {
	Publish(ctx context.Context, body interface{}) error
}

type DeletionService interface {
	Request(ctx context.Context, creatorID uint, req dto.DeletionRequestCreateRequest) (*entities.DeletionRequest, error)
	Process(ctx context.Context, msg dto.DeletionRequestedMessage) error
}

type deletionService struct {
	repo      repository.Repository
	publisher DeletionPublisher
}

func NewDeletionService(repo repository.Repository, publisher DeletionPublisher) DeletionService {
	return &deletionService{repo: repo, publisher: publisher}
}

// Request records the deletion intent and enqueues it for the worker.
// Nothing is deleted synchronously.
func (s *deletionService) Request(ctx context.Context, creatorID uint, req dto.DeletionRequestCreateRequest) (*entities.DeletionRequest, error) {
	if err := s.checkTarget(ctx, req.ObjectID, req.ObjectType); err != nil {
		return nil, err
	}
	request := &entities.DeletionRequest{
		ObjectID:       req.ObjectID,
		ObjectType:     req.ObjectType,
		DeletionReason: req.DeletionReason,
		CreatorID:      creatorID,
	}
	if err := s.repo.CreateDeletionRequest(ctx, request); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		msg := dto.DeletionRequestedMessage{
			MessageID:         uuid.New(),
			DeletionRequestID: request.ID,
			ObjectID:          request.ObjectID,
			ObjectType:        request.ObjectType,
		}
		if err := s.publisher.Publish(ctx, msg); err != nil {
			// the row is committed; the worker can pick it up on a re-publish
			zerolog.Ctx(ctx).Error().Err(err).Uint("deletion_request_id", request.ID).Msg("failed to publish deletion request")
		}
	}
	return request, nil
}

// Process applies the soft delete for a queued request. Safe to redeliver:
// an already-processed request is skipped.
func (s *deletionService) Process(ctx context.Context, msg dto.DeletionRequestedMessage) error {
	return s.repo.Transaction(ctx, func(ctx context.Context) error {
		request, err := s.repo.FindDeletionRequestByID(ctx, msg.DeletionRequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Join(ErrNotFound, fmt.Errorf("deletion request %d", msg.DeletionRequestID))
			}
			return err
		}
		if request.Processed {
			zerolog.Ctx(ctx).Info().Uint("deletion_request_id", request.ID).Msg("deletion request already processed")
			return nil
		}

		switch request.ObjectType {
		case constant.ObjectTypeRecording:
			err = s.repo.SetRecordingDeleted(ctx, request.ObjectID)
		case constant.ObjectTypeAudioFile:
			err = s.repo.SetAudioFileDeleted(ctx, request.ObjectID)
		default:
			err = errors.Join(ErrValidation, fmt.Errorf("unsupported object type %q", request.ObjectType))
		}
		if err != nil {
			return err
		}
		return s.repo.MarkDeletionRequestProcessed(ctx, request.ID)
	})
}

func (s *deletionService) checkTarget(ctx context.Context, objectID uint, objectType constant.ObjectType) error {
	var err error
	switch objectType {
	case constant.ObjectTypeRecording:
		_, err = s.repo.FindRecordingByID(ctx, objectID)
	case constant.ObjectTypeAudioFile:
		_, err = s.repo.FindAudioFileByID(ctx, objectID)
	default:
		return errors.Join(ErrValidation, fmt.Errorf("unsupported object type %q", objectType))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Join(ErrNotFound, fmt.Errorf("%s %d", objectType, objectID))
		}
		return err
	}
	return nil
}
