package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReminderStatus string

const (
	ReminderPending ReminderStatus = "PENDING"
	ReminderDone    ReminderStatus = "DONE"
)

type Reminder struct {
	Id           uuid.UUID
	UserId       string
	Message      string
	NotifyEmail  string // optional; empty means in-app notification only
	ScheduleTime time.Time
	Status       ReminderStatus
	NotifiedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
