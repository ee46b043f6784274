package entities

import "time"

// Annotation is one node of the annotation tree extracted from a recording
// header. Rows are written once during ingestion of a single revision and
// carry that revision's number denormalized, so reads never join back to
// the recordings table to filter by revision.
type Annotation struct {
	ID                    uint       `json:"id" gorm:"primaryKey"`
	RecordingID           uint       `json:"recording_id" gorm:"not null;index:idx_annotations_recording"`
	RevisionNumber        int        `json:"revision_number" gorm:"not null;index:idx_annotations_recording"`
	ParentAnnotationID    *uint      `json:"parent_annotation_id" gorm:"index"`
	AnnotationText        string     `json:"annotation_text" gorm:"type:text"`
	StartTimeMilliseconds float64    `json:"start_time_milliseconds"`
	EndTimeMilliseconds   float64    `json:"end_time_milliseconds"`
	ChildrenCount         int        `json:"children_count" gorm:"not null;default:0"`
	ReviewsCount          int        `json:"reviews_count" gorm:"not null;default:0"`
	CreatorID             uint       `json:"creator_id" gorm:"not null;index"`
	Recording             *Recording `json:"-" gorm:"foreignKey:RecordingID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time  `json:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (Annotation) TableName() string {
	return "annotations"
}
