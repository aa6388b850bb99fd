package dto

import (
	"time"

	"github.com/google/uuid"
)

type BookAppointmentRequest struct {
	FullName        string    `json:"fullName" validate:"required"`
	Email           string    `json:"email" validate:"required,email"`
	PhoneNumber     string    `json:"phoneNumber" validate:"required"`
	Department      string    `json:"department" validate:"required"`
	PreferredDoctor string    `json:"preferredDoctor"`
	Datetime        time.Time `json:"datetime" validate:"required"`
	AdditionalNotes string    `json:"additionalNotes"`
}

type AppointmentResponse struct {
	Id              uuid.UUID `json:"id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phoneNumber"`
	Department      string    `json:"department"`
	PreferredDoctor string    `json:"preferredDoctor"`
	Doctor          string    `json:"doctor"`
	Date            time.Time `json:"date"`
	Time            string    `json:"time"`
	Datetime        time.Time `json:"datetime"`
	Status          string    `json:"status"`
	AdditionalNotes string    `json:"additionalNotes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
