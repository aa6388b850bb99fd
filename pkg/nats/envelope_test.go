package nats

import (
	"testing"
	"time"

	"health-portal-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	in := events.AppointmentBooked("user-1", "appt-1", "Cardiology", "Any", at)

	raw, err := encode(in)
	require.NoError(t, err)

	out, err := decode(Subject(in.EventType()), raw)
	require.NoError(t, err)

	assert.Equal(t, events.TypeAppointmentBooked, out.EventType())
	assert.Equal(t, "user-1", events.StringField(out, events.KeyUserId))
	assert.Equal(t, "2026-03-01T09:30:00Z", events.StringField(out, events.KeyDatetime))
	assert.WithinDuration(t, in.Timestamp(), out.Timestamp(), time.Millisecond)
}

func TestDecodeBarePayloadUsesSubject(t *testing.T) {
	out, err := decode("events.reminder.due", []byte(`{"user_id":"u","message":"take meds"}`))
	require.NoError(t, err)

	assert.Equal(t, events.TypeReminderDue, out.EventType())
	assert.Equal(t, "take meds", events.StringField(out, events.KeyMessage))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := decode("events.x", []byte("not json"))
	assert.Error(t, err)
}
