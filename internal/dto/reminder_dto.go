package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateReminderRequest struct {
	Message      string    `json:"message" validate:"required"`
	ScheduleTime time.Time `json:"scheduleTime" validate:"required"`
	NotifyEmail  string    `json:"notifyEmail" validate:"omitempty,email"`
}

type ReminderResponse struct {
	Id           uuid.UUID `json:"id"`
	Message      string    `json:"message"`
	NotifyEmail  string    `json:"notifyEmail,omitempty"`
	ScheduleTime time.Time `json:"scheduleTime"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DueReminderMessage is the in-process job payload for a reminder whose time has come.
type DueReminderMessage struct {
	ReminderId uuid.UUID `json:"reminder_id"`
}
