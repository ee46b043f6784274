package dto

import (
	"github.com/google/uuid"

	"claif-api/constant"
	"claif-api/entities"
)

type RecordingCreateRequest struct {
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	RecordingContent string `json:"recording_content" binding:"required"` // base64-encoded asciicast
}

type RecordingUpdateRequest struct {
	RecordingID     uint    `json:"recording_id" binding:"required,gt=0"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	ContentMetadata *string `json:"content_metadata"` // header line only, not base64
}

type RecordingTogglePublishRequest struct {
	RecordingID uint `json:"recording_id" binding:"required,gt=0"`
	IsPublished bool `json:"is_published"`
}

type RecordingToggleLockRequest struct {
	RecordingID uint `json:"recording_id" binding:"required,gt=0"`
	IsLocked    bool `json:"is_locked"`
}

type AnnotationReviewCreateRequest struct {
	AnnotationID               uint  `json:"annotation_id" binding:"required,gt=0"`
	QDoesAnnoMatchContent      *bool `json:"q_does_anno_match_content" binding:"required"`
	QCanAnnoBeHalved           *bool `json:"q_can_anno_be_halved" binding:"required"`
	QHowWellAnnoMatchesContent int   `json:"q_how_well_anno_matches_content" binding:"required,min=1,max=10"`
	QCanYouImproveAnno         *bool `json:"q_can_you_improve_anno" binding:"required"`
	QCanYouProvideMarkdown     *bool `json:"q_can_you_provide_markdown" binding:"required"`
}

type TranscriptionCreateRequest struct {
	AudioFileID      uint   `json:"audio_file_id" binding:"required,gt=0"`
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	RecordingContent string `json:"recording_content" binding:"required"` // base64-encoded transcript cast
}

type DeletionRequestCreateRequest struct {
	ObjectID       uint                `json:"object_id" binding:"required,gt=0"`
	ObjectType     constant.ObjectType `json:"object_type" binding:"required"`
	DeletionReason string              `json:"deletion_reason" binding:"required"`
}

// RecordingSummary is the projection returned by the list endpoint; no
// annotation or content payload.
type RecordingSummary struct {
	ID                   uint    `json:"id"`
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	RevisionNumber       int     `json:"revision_number"`
	CreatorID            uint    `json:"creator_id"`
	AnnotationsCount     int     `json:"annotations_count"`
	SizeBytes            int64   `json:"size_bytes"`
	DurationMilliseconds float64 `json:"duration_milliseconds"`
}

// RecordingView is the aggregate read model for one revision: the recording
// row plus the annotations and reviews belonging to that revision only.
type RecordingView struct {
	Recording         *entities.Recording         `json:"recording"`
	Annotations       []entities.Annotation       `json:"annotations"`
	AnnotationReviews []entities.AnnotationReview `json:"annotation_reviews"`
}

// DeletionRequestedMessage is published when a deletion request is created
// and consumed by the deletion worker.
type DeletionRequestedMessage struct {
	MessageID         uuid.UUID           `json:"messageId"`
	DeletionRequestID uint                `json:"deletionRequestId"`
	ObjectID          uint                `json:"objectId"`
	ObjectType        constant.ObjectType `json:"objectType"`
}
