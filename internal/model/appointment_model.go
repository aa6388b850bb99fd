package model

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId          string    `gorm:"type:varchar(191);not null;index"`
	FullName        string    `gorm:"type:varchar(255);not null"`
	Email           string    `gorm:"type:varchar(255);not null"`
	PhoneNumber     string    `gorm:"type:varchar(50);not null"`
	Department      string    `gorm:"type:varchar(100);not null"`
	PreferredDoctor string    `gorm:"type:varchar(255);not null;default:'Any'"`
	Datetime        time.Time `gorm:"not null;index"`
	Status          string    `gorm:"type:varchar(16);not null;default:'SCHEDULED';index"`
	AdditionalNotes string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Appointment) TableName() string {
	return "appointments"
}
