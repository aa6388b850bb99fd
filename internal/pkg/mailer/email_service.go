package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"health-portal-be/internal/entity"
	"health-portal-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

const logModule = "Mailer"

type IEmailService interface {
	SendAppointmentConfirmation(appointment *entity.Appointment) error
	SendAppointmentCancellation(appointment *entity.Appointment) error
	SendReminder(toEmail string, reminder *entity.Reminder) error
}

// Sender is the part of gomail.Dialer the service uses.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender      Sender
	senderEmail string
	senderName  string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName string, log logger.ILogger) IEmailService {
	return NewEmailServiceWithSender(gomail.NewDialer(host, port, username, password), username, senderName, log)
}

func NewEmailServiceWithSender(sender Sender, senderEmail, senderName string, log logger.ILogger) IEmailService {
	return &emailService{
		sender:      sender,
		senderEmail: senderEmail,
		senderName:  senderName,
		logger:      log,
	}
}

var appointmentTemplate = template.Must(template.New("appointment").Parse(`
	<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
		<h2>{{.Heading}}</h2>
		<p>Dear {{.FullName}},</p>
		<p>{{.Lead}}</p>
		<table style="border-collapse: collapse;">
			<tr><td style="padding: 4px 12px 4px 0;"><b>Department</b></td><td>{{.Department}}</td></tr>
			<tr><td style="padding: 4px 12px 4px 0;"><b>Doctor</b></td><td>{{.Doctor}}</td></tr>
			<tr><td style="padding: 4px 12px 4px 0;"><b>Date</b></td><td>{{.When}}</td></tr>
		</table>
		<p>If you need to make changes, please use the portal.</p>
	</div>
`))

var reminderTemplate = template.Must(template.New("reminder").Parse(`
	<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
		<h2>Reminder</h2>
		<p style="font-size: 16px;">{{.Message}}</p>
		<p style="color: #777;">Scheduled for {{.When}}</p>
	</div>
`))

type appointmentView struct {
	Heading    string
	Lead       string
	FullName   string
	Department string
	Doctor     string
	When       string
}

func formatWhen(t time.Time) string {
	return t.Format("Monday, 02 Jan 2006 at 3:04 PM MST")
}

func (s *emailService) SendAppointmentConfirmation(appointment *entity.Appointment) error {
	return s.sendAppointment(appointment, "Appointment Confirmed", "Your appointment has been booked.", "Your appointment is confirmed")
}

func (s *emailService) SendAppointmentCancellation(appointment *entity.Appointment) error {
	return s.sendAppointment(appointment, "Appointment Cancelled", "Your appointment has been cancelled.", "Your appointment was cancelled")
}

func (s *emailService) sendAppointment(appointment *entity.Appointment, heading, lead, subject string) error {
	body, err := renderAppointment(appointment, heading, lead)
	if err != nil {
		return err
	}
	return s.send(appointment.Email, subject, body)
}

func (s *emailService) SendReminder(toEmail string, reminder *entity.Reminder) error {
	body, err := renderReminder(reminder)
	if err != nil {
		return err
	}
	return s.send(toEmail, "Reminder: "+reminder.Message, body)
}

func renderAppointment(appointment *entity.Appointment, heading, lead string) (string, error) {
	var body bytes.Buffer
	err := appointmentTemplate.Execute(&body, appointmentView{
		Heading:    heading,
		Lead:       lead,
		FullName:   appointment.FullName,
		Department: appointment.Department,
		Doctor:     appointment.PreferredDoctor,
		When:       formatWhen(appointment.Datetime),
	})
	return body.String(), err
}

func renderReminder(reminder *entity.Reminder) (string, error) {
	var body bytes.Buffer
	err := reminderTemplate.Execute(&body, map[string]string{
		"Message": reminder.Message,
		"When":    formatWhen(reminder.ScheduleTime),
	})
	return body.String(), err
}

func (s *emailService) send(to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := s.sender.DialAndSend(m); err != nil {
		s.logger.Error(logModule, fmt.Sprintf("Failed to send %q", subject), map[string]interface{}{
			"to":    to,
			"error": err.Error(),
		})
		return err
	}

	s.logger.Info(logModule, "Email sent", map[string]interface{}{"to": to, "subject": subject})
	return nil
}

// NopEmailService is used when SMTP is not configured.
type NopEmailService struct{}

func (NopEmailService) SendAppointmentConfirmation(*entity.Appointment) error { return nil }
func (NopEmailService) SendAppointmentCancellation(*entity.Appointment) error { return nil }
func (NopEmailService) SendReminder(string, *entity.Reminder) error          { return nil }
