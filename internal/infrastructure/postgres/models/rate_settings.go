package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RateSettingsModel struct {
	ID                  string          `gorm:"primaryKey;type:uuid"`
	PrimaryPercentage   decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	ReferringPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	IsActive            bool            `gorm:"not null;default:false"`
	EffectiveFrom       time.Time       `gorm:"not null"`
	CreatedAt           time.Time
}

func (RateSettingsModel) TableName() string {
	return "commission_rate_settings"
}
