package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"health-portal-be/internal/model"
	"health-portal-be/internal/pkg/apperror"
	"health-portal-be/internal/pkg/logger"
	"health-portal-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushed struct {
	userID       string
	notification model.Notification
}

type recordingDelivery struct {
	mu   sync.Mutex
	sent []pushed
}

func (d *recordingDelivery) Send(userID string, n model.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, pushed{userID: userID, notification: n})
}

func (d *recordingDelivery) Broadcast(n model.Notification) {
	d.Send("*", n)
}

func newTestNotificationService(t *testing.T) (*NotificationService, *recordingDelivery) {
	t.Helper()
	delivery := &recordingDelivery{}
	svc := NewNotificationService(newTestFactory(t), nil, delivery, logger.NewNopLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc, delivery
}

func TestNotificationService_AppointmentBookedBecomesInboxEntry(t *testing.T) {
	svc, delivery := newTestNotificationService(t)
	ctx := context.Background()
	apptId := uuid.New()

	at := time.Date(2026, time.November, 4, 10, 30, 0, 0, time.UTC)
	require.NoError(t, svc.HandleEvent(ctx, events.AppointmentBooked("user-1", apptId.String(), "Cardiology", "Dr. Mehta", at)))

	require.Len(t, delivery.sent, 1)
	n := delivery.sent[0].notification
	assert.Equal(t, "user-1", delivery.sent[0].userID)
	assert.Equal(t, "Appointment booked", n.Title)
	assert.Equal(t, "Your Cardiology appointment with Dr. Mehta is booked for 2026-11-04T10:30:00Z.", n.Message)
	assert.Equal(t, "appointment", n.EntityType)
	require.NotNil(t, n.EntityID)
	assert.Equal(t, apptId, *n.EntityID)

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(n.Metadata, &meta))
	assert.Equal(t, "/appointments/"+apptId.String(), meta["action_url"])

	items, total, err := svc.GetNotifications(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, n.ID, items[0].ID)
}

func TestNotificationService_IgnoresUntemplatedAndAnonymousEvents(t *testing.T) {
	svc, delivery := newTestNotificationService(t)
	ctx := context.Background()

	require.NoError(t, svc.HandleEvent(ctx, events.ChatTurnCompleted("user-1", uuid.NewString())))
	require.NoError(t, svc.HandleEvent(ctx, events.New(events.TypeReminderDue, map[string]interface{}{
		events.KeyMessage: "no owner",
	})))

	assert.Empty(t, delivery.sent)
	count, err := svc.GetUnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_ReadState(t *testing.T) {
	svc, _ := newTestNotificationService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.HandleEvent(ctx, events.ReminderDue("user-1", uuid.NewString(), "Take medication", fixedNow)))
	}
	require.NoError(t, svc.HandleEvent(ctx, events.ReportUploaded("user-2", uuid.NewString(), "Lipid panel")))

	count, err := svc.GetUnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	items, _, err := svc.GetNotifications(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	require.NoError(t, svc.MarkAsRead(ctx, "user-1", items[0].ID))

	err = svc.MarkAsRead(ctx, "user-2", items[1].ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "cannot read another user's notification")

	count, err = svc.GetUnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.MarkAllAsRead(ctx, "user-1"))
	count, err = svc.GetUnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = svc.GetUnreadCount(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLocalEventPublisher_DeliversToHandler(t *testing.T) {
	svc, delivery := newTestNotificationService(t)
	publisher := NewLocalEventPublisher(svc.HandleEvent)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, publisher.Publish(ctx, events.ReportUploaded("user-1", uuid.NewString(), "CBC")))
	require.Len(t, delivery.sent, 1)
	assert.Equal(t, "Your report \"CBC\" has been uploaded and summarized.", delivery.sent[0].notification.Message)
}
