package mailer

import (
	"errors"
	"testing"
	"time"

	"health-portal-be/internal/entity"
	"health-portal-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	messages []*gomail.Message
	err      error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.messages = append(c.messages, m...)
	return c.err
}

func TestSendAppointmentConfirmation(t *testing.T) {
	sender := &captureSender{}
	svc := NewEmailServiceWithSender(sender, "clinic@example.com", "Health Portal", logger.NewNopLogger())

	err := svc.SendAppointmentConfirmation(&entity.Appointment{
		FullName:        "Asha Rao",
		Email:           "asha@example.com",
		Department:      "Cardiology",
		PreferredDoctor: "Any",
		Datetime:        time.Date(2026, 11, 3, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	m := sender.messages[0]
	assert.Equal(t, []string{"asha@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Your appointment is confirmed"}, m.GetHeader("Subject"))
}

func TestRenderAppointment(t *testing.T) {
	body, err := renderAppointment(&entity.Appointment{
		FullName:        "Asha Rao",
		Department:      "Cardiology",
		PreferredDoctor: "Dr. Mehta",
		Datetime:        time.Date(2026, 11, 3, 10, 30, 0, 0, time.UTC),
	}, "Appointment Confirmed", "Your appointment has been booked.")
	require.NoError(t, err)

	assert.Contains(t, body, "Dear Asha Rao")
	assert.Contains(t, body, "Cardiology")
	assert.Contains(t, body, "Dr. Mehta")
	assert.Contains(t, body, "Tuesday, 03 Nov 2026 at 10:30 AM UTC")
}

func TestRenderReminder_EscapesMessage(t *testing.T) {
	body, err := renderReminder(&entity.Reminder{
		Message:      "<b>take meds</b>",
		ScheduleTime: time.Now(),
	})
	require.NoError(t, err)

	assert.NotContains(t, body, "<b>take meds</b>")
	assert.Contains(t, body, "&lt;b&gt;take meds&lt;/b&gt;")
}

func TestSend_PropagatesDialError(t *testing.T) {
	sender := &captureSender{err: errors.New("connection refused")}
	svc := NewEmailServiceWithSender(sender, "clinic@example.com", "Health Portal", logger.NewNopLogger())

	err := svc.SendAppointmentCancellation(&entity.Appointment{Email: "a@example.com"})
	assert.Error(t, err)
}
