package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"claif-api/dto"
	"claif-api/entities"
)

func (r *repo) CreateRecording(ctx context.Context, recording *entities.Recording) error {
	return r.conn(ctx).Create(recording).Error
}

func (r *repo) SetSourceRevision(ctx context.Context, recordingID, sourceRevisionID uint) error {
	return r.conn(ctx).Model(&entities.Recording{}).
		Where("id = ?", recordingID).
		Update("source_revision_id", sourceRevisionID).Error
}

func (r *repo) FindRecordingByID(ctx context.Context, id uint) (*entities.Recording, error) {
	recording := &entities.Recording{}
	err := r.conn(ctx).First(recording, "id = ? AND is_deleted = ?", id, false).Error
	if err != nil {
		return nil, err
	}
	return recording, nil
}

// FindRecordingForUpdate locks the row for the duration of the surrounding
// transaction so two concurrent updates cannot both branch off the same
// revision. sqlite has no row locks; the unique index on
// (source_revision_id, revision_number) is the backstop there.
func (r *repo) FindRecordingForUpdate(ctx context.Context, id uint) (*entities.Recording, error) {
	recording := &entities.Recording{}
	conn := r.conn(ctx)
	if conn.Dialector.Name() == "postgres" {
		conn = conn.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := conn.First(recording, "id = ? AND is_deleted = ?", id, false).Error
	if err != nil {
		return nil, err
	}
	return recording, nil
}

func (r *repo) FindLineage(ctx context.Context, sourceRevisionID uint) ([]entities.Recording, error) {
	var revisions []entities.Recording
	err := r.conn(ctx).
		Where("source_revision_id = ?", sourceRevisionID).
		Order("revision_number ASC").
		Find(&revisions).Error
	if err != nil {
		return nil, err
	}
	return revisions, nil
}

func (r *repo) ListRecordings(ctx context.Context) ([]dto.RecordingSummary, error) {
	var summaries []dto.RecordingSummary
	err := r.conn(ctx).Model(&entities.Recording{}).
		Select("id", "title", "description", "revision_number", "creator_id",
			"annotations_count", "size_bytes", "duration_milliseconds").
		Where("is_deleted = ?", false).
		Order("id ASC").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *repo) SetRecordingPublished(ctx context.Context, id uint, published bool) error {
	return r.conn(ctx).Model(&entities.Recording{}).
		Where("id = ?", id).
		Update("published", published).Error
}

func (r *repo) SetRecordingLocked(ctx context.Context, id uint, locked bool) error {
	return r.conn(ctx).Model(&entities.Recording{}).
		Where("id = ?", id).
		Update("locked_for_review", locked).Error
}

func (r *repo) SetRecordingDeleted(ctx context.Context, id uint) error {
	return r.conn(ctx).Model(&entities.Recording{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
