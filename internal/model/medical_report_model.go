package model

import (
	"time"

	"github.com/google/uuid"
)

type MedicalReport struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId     string    `gorm:"type:varchar(191);not null;index:idx_reports_user_created,priority:1"`
	ReportName string    `gorm:"type:varchar(255);not null"`
	ReportUrl  string    `gorm:"type:text;not null"`
	StorageKey string    `gorm:"type:text;not null"`
	Summary    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_reports_user_created,priority:2"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (MedicalReport) TableName() string {
	return "medical_reports"
}
