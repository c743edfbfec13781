package models

import "time"

type AffiliateModel struct {
	ID                string  `gorm:"primaryKey;type:uuid"`
	Email             string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	FirstName         string  `gorm:"type:varchar(100)"`
	LastName          string  `gorm:"type:varchar(100)"`
	Role              string  `gorm:"type:varchar(20);not null;default:'affiliate'"`
	ReferralCode      string  `gorm:"type:varchar(8);not null;uniqueIndex"`
	ReferredByID      *string `gorm:"type:uuid;index"`
	PaypalEmail       *string `gorm:"type:varchar(255)"`
	BankAccountNumber *string `gorm:"type:varchar(64)"`
	BankRoutingNumber *string `gorm:"type:varchar(64)"`
	BankAccountHolder *string `gorm:"type:varchar(255)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (AffiliateModel) TableName() string {
	return "affiliates"
}
