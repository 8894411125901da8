package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/anuverse/teamops-backend/pkg/enums"
)

// Lead is a prospective customer captured by a marketing user.
type Lead struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CapturedBy      uuid.UUID        `gorm:"column:captured_by;type:uuid;not null;index"`
	ShopName        string           `gorm:"column:shop_name;not null"`
	Name            string           `gorm:"column:name;not null"`
	Phone           string           `gorm:"column:phone;not null"`
	Email           *string          `gorm:"column:email"`
	Address         *string          `gorm:"column:address"`
	ProductInterest *string          `gorm:"column:product_interest"`
	Notes           *string          `gorm:"column:notes"`
	ImageURL        *string          `gorm:"column:image_url"`
	FollowUpDate    *time.Time       `gorm:"column:follow_up_date"`
	Status          enums.LeadStatus `gorm:"column:status;type:text;not null;default:new"`
	CapturedAt      time.Time        `gorm:"column:captured_at;autoCreateTime"`
}
