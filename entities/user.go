package entities

import "time"

// User mirrors an external identity provider subject. Token validation is
// handled upstream; rows here exist so recordings, annotations and reviews
// have a creator to reference.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	KeycloakID string    `json:"keycloak_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	Username   string    `json:"username" gorm:"type:varchar(255);not null;uniqueIndex"`
	IsDeleted  bool      `json:"is_deleted" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string {
	return "users"
}
