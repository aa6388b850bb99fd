package model

import (
	"time"

	"github.com/google/uuid"
)

type Reminder struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId       string     `gorm:"type:varchar(191);not null;index"`
	Message      string     `gorm:"type:text;not null"`
	NotifyEmail  string     `gorm:"type:varchar(255)"`
	ScheduleTime time.Time  `gorm:"not null;index:idx_reminders_status_schedule,priority:2"`
	Status       string     `gorm:"type:varchar(16);not null;default:'PENDING';index:idx_reminders_status_schedule,priority:1"`
	NotifiedAt   *time.Time `gorm:"index"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (Reminder) TableName() string {
	return "reminders"
}
