package mapper

import (
	"health-portal-be/internal/entity"
	"health-portal-be/internal/model"
)

// HealthMapper converts reports, appointments and reminders.
type HealthMapper struct{}

func NewHealthMapper() *HealthMapper {
	return &HealthMapper{}
}

func (m *HealthMapper) ReportToEntity(r *model.MedicalReport) *entity.MedicalReport {
	if r == nil {
		return nil
	}
	return &entity.MedicalReport{
		Id:         r.Id,
		UserId:     r.UserId,
		ReportName: r.ReportName,
		ReportUrl:  r.ReportUrl,
		StorageKey: r.StorageKey,
		Summary:    r.Summary,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (m *HealthMapper) ReportToModel(r *entity.MedicalReport) *model.MedicalReport {
	if r == nil {
		return nil
	}
	return &model.MedicalReport{
		Id:         r.Id,
		UserId:     r.UserId,
		ReportName: r.ReportName,
		ReportUrl:  r.ReportUrl,
		StorageKey: r.StorageKey,
		Summary:    r.Summary,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (m *HealthMapper) AppointmentToEntity(a *model.Appointment) *entity.Appointment {
	if a == nil {
		return nil
	}
	return &entity.Appointment{
		Id:              a.Id,
		UserId:          a.UserId,
		FullName:        a.FullName,
		Email:           a.Email,
		PhoneNumber:     a.PhoneNumber,
		Department:      a.Department,
		PreferredDoctor: a.PreferredDoctor,
		Datetime:        a.Datetime,
		Status:          entity.AppointmentStatus(a.Status),
		AdditionalNotes: a.AdditionalNotes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (m *HealthMapper) AppointmentToModel(a *entity.Appointment) *model.Appointment {
	if a == nil {
		return nil
	}
	return &model.Appointment{
		Id:              a.Id,
		UserId:          a.UserId,
		FullName:        a.FullName,
		Email:           a.Email,
		PhoneNumber:     a.PhoneNumber,
		Department:      a.Department,
		PreferredDoctor: a.PreferredDoctor,
		Datetime:        a.Datetime,
		Status:          string(a.Status),
		AdditionalNotes: a.AdditionalNotes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (m *HealthMapper) ReminderToEntity(r *model.Reminder) *entity.Reminder {
	if r == nil {
		return nil
	}
	return &entity.Reminder{
		Id:           r.Id,
		UserId:       r.UserId,
		Message:      r.Message,
		NotifyEmail:  r.NotifyEmail,
		ScheduleTime: r.ScheduleTime,
		Status:       entity.ReminderStatus(r.Status),
		NotifiedAt:   r.NotifiedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (m *HealthMapper) ReminderToModel(r *entity.Reminder) *model.Reminder {
	if r == nil {
		return nil
	}
	return &model.Reminder{
		Id:           r.Id,
		UserId:       r.UserId,
		Message:      r.Message,
		NotifyEmail:  r.NotifyEmail,
		ScheduleTime: r.ScheduleTime,
		Status:       string(r.Status),
		NotifiedAt:   r.NotifiedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
