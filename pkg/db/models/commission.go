package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Commission records a payout owed to a marketing user for a sale.
type Commission struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	SaleID            *uuid.UUID      `gorm:"column:sale_id;type:uuid"`
	Product           string          `gorm:"column:product;not null"`
	Amount            decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CommissionPercent decimal.Decimal `gorm:"column:commission_percent;type:numeric(5,2);not null"`
	PaidStatus        bool            `gorm:"column:paid_status;not null;default:false"`
	CalculatedAt      time.Time       `gorm:"column:calculated_at;autoCreateTime"`
}
