package entity

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "SCHEDULED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
)

type Appointment struct {
	Id              uuid.UUID
	UserId          string
	FullName        string
	Email           string
	PhoneNumber     string
	Department      string
	PreferredDoctor string
	Datetime        time.Time
	Status          AppointmentStatus
	AdditionalNotes string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
