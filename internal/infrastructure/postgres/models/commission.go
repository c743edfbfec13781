package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommissionModel struct {
	ID                string          `gorm:"primaryKey;type:uuid"`
	AffiliateID       string          `gorm:"type:uuid;not null;index"`
	LeadID            *string         `gorm:"type:uuid;index"`
	Type              string          `gorm:"type:varchar(20);not null"`
	Percentage        decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	Amount            decimal.Decimal `gorm:"type:numeric(38,18);not null"`
	Description       *string         `gorm:"type:text"`
	Status            string          `gorm:"type:varchar(20);not null;index"`
	PayoutRequestedAt *time.Time      `gorm:"index"`
	ApprovedAt        *time.Time
	PaidAt            *time.Time `gorm:"index"`
	CreatedAt         time.Time
}

func (CommissionModel) TableName() string {
	return "commissions"
}
