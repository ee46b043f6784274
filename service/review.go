package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"claif-api/dto"
	"claif-api/entities"
	"claif-api/repository"
)

type ReviewService interface {
	Create(ctx context.Context, creatorID uint, req dto.AnnotationReviewCreateRequest) (*entities.AnnotationReview, error)
}

type reviewService struct {
	repo repository.Repository
}

func NewReviewService(repo repository.Repository) ReviewService {
	return &reviewService{repo: repo}
}

// Create attaches a reviewer judgment to an annotation. The recording id
// and revision number are denormalized from the annotation, and the
// annotation's reviews_count is bumped in the same transaction. The score
// bound is validated here and again by the check constraint on the table.
func (s *reviewService) Create(ctx context.Context, creatorID uint, req dto.AnnotationReviewCreateRequest) (*entities.AnnotationReview, error) {
	if req.QHowWellAnnoMatchesContent < 1 || req.QHowWellAnnoMatchesContent > 10 {
		return nil, errors.Join(ErrValidation, fmt.Errorf("q_how_well_anno_matches_content must be in [1,10], got %d", req.QHowWellAnnoMatchesContent))
	}

	var review *entities.AnnotationReview
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		annotation, err := s.repo.FindAnnotationByID(ctx, req.AnnotationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Join(ErrNotFound, fmt.Errorf("annotation %d", req.AnnotationID))
			}
			return err
		}
		review = &entities.AnnotationReview{
			AnnotationID:               annotation.ID,
			RecordingID:                annotation.RecordingID,
			RevisionNumber:             annotation.RevisionNumber,
			QDoesAnnoMatchContent:      *req.QDoesAnnoMatchContent,
			QCanAnnoBeHalved:           *req.QCanAnnoBeHalved,
			QHowWellAnnoMatchesContent: req.QHowWellAnnoMatchesContent,
			QCanYouImproveAnno:         *req.QCanYouImproveAnno,
			QCanYouProvideMarkdown:     *req.QCanYouProvideMarkdown,
			CreatorID:                  creatorID,
		}
		if err := s.repo.CreateAnnotationReview(ctx, review); err != nil {
			return err
		}
		return s.repo.IncrementAnnotationReviewsCount(ctx, annotation.ID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}
