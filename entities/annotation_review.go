package entities

import "time"

// AnnotationReview is one reviewer's judgment of one annotation. The
// recording id and revision number are copied from the annotation at
// creation time. The 1..10 score is enforced by a check constraint in
// addition to request validation.
type AnnotationReview struct {
	ID                         uint        `json:"id" gorm:"primaryKey"`
	AnnotationID               uint        `json:"annotation_id" gorm:"not null;index"`
	RecordingID                uint        `json:"recording_id" gorm:"not null;index"`
	RevisionNumber             int         `json:"revision_number" gorm:"not null;index"`
	QDoesAnnoMatchContent      bool        `json:"q_does_anno_match_content" gorm:"not null"`
	QCanAnnoBeHalved           bool        `json:"q_can_anno_be_halved" gorm:"not null"`
	QHowWellAnnoMatchesContent int         `json:"q_how_well_anno_matches_content" gorm:"not null;check:q_how_well_anno_matches_content >= 1 AND q_how_well_anno_matches_content <= 10"`
	QCanYouImproveAnno         bool        `json:"q_can_you_improve_anno" gorm:"not null"`
	QCanYouProvideMarkdown     bool        `json:"q_can_you_provide_markdown" gorm:"not null"`
	CreatorID                  uint        `json:"creator_id" gorm:"not null;index"`
	Annotation                 *Annotation `json:"-" gorm:"foreignKey:AnnotationID;constraint:OnDelete:CASCADE"`
	CreatedAt                  time.Time   `json:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (AnnotationReview) TableName() string {
	return "annotation_reviews"
}
