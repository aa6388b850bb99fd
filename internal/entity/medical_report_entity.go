package entity

import (
	"time"

	"github.com/google/uuid"
)

type MedicalReport struct {
	Id         uuid.UUID
	UserId     string
	ReportName string
	ReportUrl  string
	StorageKey string
	Summary    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
