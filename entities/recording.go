package entities

import (
	"time"

	"claif-api/constant"
)

// Recording is one revision of an annotatable recording. Updates never
// mutate an existing row; they append a new row to the same lineage.
// All rows of a lineage share SourceRevisionID, which the revision 1 row
// points at itself (patched after insert, once the id is known).
type Recording struct {
	ID                   uint                   `json:"id" gorm:"primaryKey"`
	RecordingType        constant.RecordingType `json:"recording_type" gorm:"type:varchar(32);not null;index"`
	Title                string                 `json:"title" gorm:"type:varchar(255)"`
	Description          string                 `json:"description" gorm:"type:text"`
	RevisionNumber       int                    `json:"revision_number" gorm:"not null;index;uniqueIndex:uniq_lineage_revision,priority:2"`
	SourceRevisionID     *uint                  `json:"source_revision_id" gorm:"index;uniqueIndex:uniq_lineage_revision,priority:1"`
	PreviousRevisionID   *uint                  `json:"previous_revision_id" gorm:"index"`
	SizeBytes            int64                  `json:"size_bytes" gorm:"type:bigint"`
	DurationMilliseconds float64                `json:"duration_milliseconds"`
	ContentMetadata      string                 `json:"content_metadata" gorm:"type:text"`
	ContentBody          *string                `json:"content_body" gorm:"type:text"`
	AnnotationsCount     int                    `json:"annotations_count" gorm:"not null;default:0;index"`
	Published            bool                   `json:"published" gorm:"not null;default:false"`
	LockedForReview      bool                   `json:"locked_for_review" gorm:"not null;default:false"`
	IsDeleted            bool                   `json:"is_deleted" gorm:"not null;default:false;index"`
	AudioFileID          *uint                  `json:"audio_file_id" gorm:"index"`
	CreatorID            uint                   `json:"creator_id" gorm:"not null;index"`
	Creator              *User                  `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	CreatedAt            time.Time              `json:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP;index"`
}

func (Recording) TableName() string {
	return "recordings"
}
