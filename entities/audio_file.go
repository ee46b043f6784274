package entities

import "time"

// AudioFile is the metadata row for an uploaded audio binary. The binary
// itself lives in object storage under ObjectName; transcriptions reference
// this row via Recording.AudioFileID.
type AudioFile struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(255)"`
	Description string    `json:"description" gorm:"type:text"`
	ObjectName  string    `json:"object_name" gorm:"type:varchar(500);not null"`
	ContentType string    `json:"content_type" gorm:"type:varchar(128)"`
	SizeBytes   int64     `json:"size_bytes" gorm:"type:bigint"`
	IsDeleted   bool      `json:"is_deleted" gorm:"not null;default:false;index"`
	CreatorID   uint      `json:"creator_id" gorm:"not null;index"`
	Creator     *User     `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (AudioFile) TableName() string {
	return "audio_files"
}
