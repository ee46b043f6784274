package repository

import (
	"context"

	"gorm.io/gorm"

	"claif-api/entities"
)

func (r *repo) CreateAnnotation(ctx context.Context, annotation *entities.Annotation) error {
	return r.conn(ctx).Create(annotation).Error
}

func (r *repo) FindAnnotationByID(ctx context.Context, id uint) (*entities.Annotation, error) {
	annotation := &entities.Annotation{}
	err := r.conn(ctx).First(annotation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return annotation, nil
}

func (r *repo) AnnotationsByRevision(ctx context.Context, recordingID uint, revisionNumber int) ([]entities.Annotation, error) {
	var annotations []entities.Annotation
	err := r.conn(ctx).
		Where("recording_id = ? AND revision_number = ?", recordingID, revisionNumber).
		Order("id ASC").
		Find(&annotations).Error
	if err != nil {
		return nil, err
	}
	return annotations, nil
}

func (r *repo) CountAnnotationsByRecording(ctx context.Context, recordingID uint) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&entities.Annotation{}).
		Where("recording_id = ?", recordingID).
		Count(&count).Error
	return count, err
}

func (r *repo) IncrementAnnotationReviewsCount(ctx context.Context, id uint) error {
	return r.conn(ctx).Model(&entities.Annotation{}).
		Where("id = ?", id).
		Update("reviews_count", gorm.Expr("reviews_count + 1")).Error
}

func (r *repo) CreateAnnotationReview(ctx context.Context, review *entities.AnnotationReview) error {
	return r.conn(ctx).Create(review).Error
}

func (r *repo) ReviewsByRevision(ctx context.Context, recordingID uint, revisionNumber int) ([]entities.AnnotationReview, error) {
	var reviews []entities.AnnotationReview
	err := r.conn(ctx).
		Where("recording_id = ? AND revision_number = ?", recordingID, revisionNumber).
		Order("id ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
