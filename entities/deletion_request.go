package entities

import (
	"time"

	"claif-api/constant"
)

// DeletionRequest records an intent to delete an object. Nothing is
// cascaded here; a worker consumes the queued request and applies the
// soft delete, then marks the row processed.
type DeletionRequest struct {
	ID             uint                `json:"id" gorm:"primaryKey"`
	ObjectID       uint                `json:"object_id" gorm:"not null;index"`
	ObjectType     constant.ObjectType `json:"object_type" gorm:"type:varchar(32);not null;index"`
	DeletionReason string              `json:"deletion_reason" gorm:"type:text"`
	Processed      bool                `json:"processed" gorm:"not null;default:false;index"`
	ProcessedAt    *time.Time          `json:"processed_at" gorm:"type:timestamptz"`
	CreatorID      uint                `json:"creator_id" gorm:"not null;index"`
	CreatedAt      time.Time           `json:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (DeletionRequest) TableName() string {
	return "deletion_requests"
}
