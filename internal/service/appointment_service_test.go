package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"health-portal-be/internal/dto"
	"health-portal-be/internal/pkg/apperror"
	"health-portal-be/internal/pkg/logger"
	"health-portal-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.November, 3, 9, 0, 0, 0, time.UTC)

type appointmentFixture struct {
	svc       *appointmentService
	mailer    *recordingMailer
	publisher *recordingPublisher
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	mailer := &recordingMailer{}
	publisher := &recordingPublisher{}
	svc := NewAppointmentService(newTestFactory(t), mailer, publisher, logger.NewNopLogger()).(*appointmentService)
	svc.now = func() time.Time { return fixedNow }

	return &appointmentFixture{svc: svc, mailer: mailer, publisher: publisher}
}

func bookingRequest(at time.Time) *dto.BookAppointmentRequest {
	return &dto.BookAppointmentRequest{
		FullName:    "Asha Rao",
		Email:       "asha@example.com",
		PhoneNumber: "+91 98765 43210",
		Department:  "Cardiology",
		Datetime:    at,
	}
}

func TestAppointmentService_Book(t *testing.T) {
	f := newAppointmentFixture(t)

	resp, err := f.svc.Book(context.Background(), "user-1", bookingRequest(fixedNow.Add(25*time.Hour+30*time.Minute)))
	require.NoError(t, err)

	assert.Equal(t, "SCHEDULED", resp.Status)
	assert.Equal(t, "Any", resp.Doctor)
	assert.Equal(t, "10:30 AM", resp.Time)
	assert.Equal(t, []sentEmail{{kind: "confirmation", to: "asha@example.com"}}, f.mailer.emails())
	assert.Equal(t, []string{events.TypeAppointmentBooked}, f.publisher.types())
}

func TestAppointmentService_BookAllowsEarlierToday(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.svc.Book(context.Background(), "user-1", bookingRequest(fixedNow.Add(-2*time.Hour)))
	assert.NoError(t, err)
}

func TestAppointmentService_BookEmailFailureIsNotFatal(t *testing.T) {
	f := newAppointmentFixture(t)
	f.mailer.err = errors.New("smtp down")

	_, err := f.svc.Book(context.Background(), "user-1", bookingRequest(fixedNow.Add(time.Hour)))
	assert.NoError(t, err)
}

func TestAppointmentService_BookRejections(t *testing.T) {
	f := newAppointmentFixture(t)

	past := bookingRequest(fixedNow.Add(-24 * time.Hour))
	_, err := f.svc.Book(context.Background(), "user-1", past)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, "Appointment date cannot be in the past", err.Error())

	missing := bookingRequest(fixedNow.Add(time.Hour))
	missing.Department = ""
	_, err = f.svc.Book(context.Background(), "user-1", missing)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	badEmail := bookingRequest(fixedNow.Add(time.Hour))
	badEmail.Email = "not-an-email"
	_, err = f.svc.Book(context.Background(), "user-1", badEmail)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	assert.Empty(t, f.mailer.emails())
}

func TestAppointmentService_GetAllHidesCancelledAndSortsByTime(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	late, err := f.svc.Book(ctx, "user-1", bookingRequest(fixedNow.Add(72*time.Hour)))
	require.NoError(t, err)
	early, err := f.svc.Book(ctx, "user-1", bookingRequest(fixedNow.Add(24*time.Hour)))
	require.NoError(t, err)
	cancelled, err := f.svc.Book(ctx, "user-1", bookingRequest(fixedNow.Add(48*time.Hour)))
	require.NoError(t, err)
	_, err = f.svc.Book(ctx, "user-2", bookingRequest(fixedNow.Add(36*time.Hour)))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, "user-1", cancelled.Id.String())
	require.NoError(t, err)

	list, err := f.svc.GetAll(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.Id, list[0].Id)
	assert.Equal(t, late.Id, list[1].Id)
}

func TestAppointmentService_CancelAndDeleteOwnership(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	appt, err := f.svc.Book(ctx, "user-1", bookingRequest(fixedNow.Add(time.Hour)))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, "user-2", appt.Id.String())
	assert.True(t, errors.Is(err, apperror.ErrForbidden))
	assert.Equal(t, "Not authorized to cancel this appointment", err.Error())

	err = f.svc.Delete(ctx, "user-2", appt.Id.String())
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	_, err = f.svc.Cancel(ctx, "user-1", "garbage")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	resp, err := f.svc.Cancel(ctx, "user-1", appt.Id.String())
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", resp.Status)
	assert.Contains(t, f.publisher.types(), events.TypeAppointmentCancelled)
	assert.Equal(t, "cancellation", f.mailer.emails()[1].kind)

	require.NoError(t, f.svc.Delete(ctx, "user-1", appt.Id.String()))
	err = f.svc.Delete(ctx, "user-1", appt.Id.String())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
