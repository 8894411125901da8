package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a reply on a code post, optionally carrying an attachment.
type Comment struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PostID        uuid.UUID `gorm:"column:post_id;type:uuid;not null;index"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Text          string    `gorm:"column:text;not null"`
	AttachmentURL *string   `gorm:"column:attachment_url"`
	Timestamp     time.Time `gorm:"column:timestamp;autoCreateTime"`
}
