package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"health-portal-be/internal/dto"
	"health-portal-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReminderService(t *testing.T) *reminderService {
	t.Helper()
	svc := NewReminderService(newTestFactory(t)).(*reminderService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestReminderService_CreateAndListPending(t *testing.T) {
	svc := newTestReminderService(t)
	ctx := context.Background()

	later, err := svc.Create(ctx, "user-1", &dto.CreateReminderRequest{
		Message:      "  Take evening dose ",
		ScheduleTime: fixedNow.Add(10 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "Take evening dose", later.Message)
	assert.Equal(t, "PENDING", later.Status)

	sooner, err := svc.Create(ctx, "user-1", &dto.CreateReminderRequest{
		Message:      "Blood pressure check",
		ScheduleTime: fixedNow.Add(time.Hour),
		NotifyEmail:  "asha@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user-2", &dto.CreateReminderRequest{
		Message:      "Someone else",
		ScheduleTime: fixedNow.Add(time.Hour),
	})
	require.NoError(t, err)

	pending, err := svc.GetPending(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, sooner.Id, pending[0].Id)
	assert.Equal(t, "asha@example.com", pending[0].NotifyEmail)
	assert.Equal(t, later.Id, pending[1].Id)
}

func TestReminderService_CreateRejections(t *testing.T) {
	svc := newTestReminderService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *dto.CreateReminderRequest
	}{
		{"blank message", &dto.CreateReminderRequest{Message: "   ", ScheduleTime: fixedNow.Add(time.Hour)}},
		{"missing time", &dto.CreateReminderRequest{Message: "x"}},
		{"past time", &dto.CreateReminderRequest{Message: "x", ScheduleTime: fixedNow.Add(-time.Minute)}},
		{"bad email", &dto.CreateReminderRequest{Message: "x", ScheduleTime: fixedNow.Add(time.Hour), NotifyEmail: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-1", tt.req)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
		})
	}
}

func TestReminderService_CompleteAndDelete(t *testing.T) {
	svc := newTestReminderService(t)
	ctx := context.Background()

	reminder, err := svc.Create(ctx, "user-1", &dto.CreateReminderRequest{
		Message:      "Refill prescription",
		ScheduleTime: fixedNow.Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, "user-2", reminder.Id.String())
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	done, err := svc.Complete(ctx, "user-1", reminder.Id.String())
	require.NoError(t, err)
	assert.Equal(t, "DONE", done.Status)

	pending, err := svc.GetPending(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, pending)

	err = svc.Delete(ctx, "user-2", reminder.Id.String())
	assert.True(t, errors.Is(err, apperror.ErrForbidden))
	require.NoError(t, svc.Delete(ctx, "user-1", reminder.Id.String()))

	err = svc.Delete(ctx, "user-1", reminder.Id.String())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
