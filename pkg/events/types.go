package events

import "time"

const (
	TypeAppointmentBooked    = "appointment.booked"
	TypeAppointmentCancelled = "appointment.cancelled"
	TypeReminderDue          = "reminder.due"
	TypeReportUploaded       = "report.uploaded"
)

// Payload keys shared by publishers and the notification consumer.
const (
	KeyUserId        = "user_id"
	KeyAppointmentId = "appointment_id"
	KeyDepartment    = "department"
	KeyDoctor        = "doctor"
	KeyDatetime      = "datetime"
	KeyReminderId    = "reminder_id"
	KeyMessage       = "message"
	KeyReportId      = "report_id"
	KeyReportName    = "report_name"
)

func AppointmentBooked(userId, appointmentId, department, doctor string, at time.Time) BaseEvent {
	return New(TypeAppointmentBooked, map[string]interface{}{
		KeyUserId:        userId,
		KeyAppointmentId: appointmentId,
		KeyDepartment:    department,
		KeyDoctor:        doctor,
		KeyDatetime:      at.Format(time.RFC3339),
	})
}

func AppointmentCancelled(userId, appointmentId, department string, at time.Time) BaseEvent {
	return New(TypeAppointmentCancelled, map[string]interface{}{
		KeyUserId:        userId,
		KeyAppointmentId: appointmentId,
		KeyDepartment:    department,
		KeyDatetime:      at.Format(time.RFC3339),
	})
}

func ReminderDue(userId, reminderId, message string, at time.Time) BaseEvent {
	return New(TypeReminderDue, map[string]interface{}{
		KeyUserId:     userId,
		KeyReminderId: reminderId,
		KeyMessage:    message,
		KeyDatetime:   at.Format(time.RFC3339),
	})
}

func ReportUploaded(userId, reportId, reportName string) BaseEvent {
	return New(TypeReportUploaded, map[string]interface{}{
		KeyUserId:     userId,
		KeyReportId:   reportId,
		KeyReportName: reportName,
	})
}

// StringField reads a string payload value, tolerating absent keys.
func StringField(e Event, key string) string {
	v, _ := e.Payload()[key].(string)
	return v
}

const TypeChatTurnCompleted = "chat.turn_completed"

const KeyConversationId = "conversation_id"

func ChatTurnCompleted(userId, conversationId string) BaseEvent {
	return New(TypeChatTurnCompleted, map[string]interface{}{
		KeyUserId:         userId,
		KeyConversationId: conversationId,
	})
}
