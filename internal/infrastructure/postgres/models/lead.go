package models

import "time"

type LeadModel struct {
	ID                  string    `gorm:"primaryKey;type:uuid"`
	Code                string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	FullName            string    `gorm:"type:varchar(255);not null"`
	Email               *string   `gorm:"type:varchar(255)"`
	Phone               *string   `gorm:"type:varchar(50)"`
	LocationCity        *string   `gorm:"type:varchar(100)"`
	LocationState       *string   `gorm:"type:varchar(100)"`
	Industry            *string   `gorm:"type:varchar(100)"`
	Notes               *string   `gorm:"type:text"`
	SubmittedByID       string    `gorm:"type:uuid;not null;index"`
	SecondaryReferrerID *string   `gorm:"type:uuid"`
	Status              string    `gorm:"type:varchar(20);not null;index"`
	AdminNotes          *string   `gorm:"type:text"`
	CreatedAt           time.Time `gorm:"index"`
	UpdatedAt           time.Time
	ConvertedAt         *time.Time
}

func (LeadModel) TableName() string {
	return "leads"
}
