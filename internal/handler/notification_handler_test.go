package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"health-portal-be/internal/model"
	"health-portal-be/internal/pkg/logger"
	"health-portal-be/internal/pkg/serverutils"
	"health-portal-be/internal/repository/unitofwork"
	"health-portal-be/internal/service"
	internalWS "health-portal-be/internal/websocket"
	"health-portal-be/pkg/database"
	"health-portal-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*fiber.App, *service.NotificationService, string) {
	t.Helper()

	db, err := database.NewInMemoryDB()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Notification{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	hub := internalWS.NewHub(nil, logger.NewNopLogger())
	svc := service.NewNotificationService(unitofwork.NewRepositoryFactory(db), nil, hub, logger.NewNopLogger())

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	NewNotificationHandler(svc, hub, logger.NewNopLogger()).RegisterRoutes(app.Group("/api"))

	serverutils.SetJwtSecret("handler-secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("handler-secret"))
	require.NoError(t, err)

	return app, svc, "Bearer " + token
}

func get(t *testing.T, app *fiber.App, method, path, auth string, out interface{}) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestNotificationHandler_InboxFlow(t *testing.T) {
	app, svc, auth := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.HandleEvent(ctx, events.ReminderDue("user-1", uuid.NewString(), "Take medication", time.Now())))
	require.NoError(t, svc.HandleEvent(ctx, events.ReportUploaded("user-1", uuid.NewString(), "CBC")))

	var list struct {
		Data struct {
			Items []model.Notification `json:"items"`
			Total int64                `json:"total"`
			Page  int                  `json:"page"`
		} `json:"data"`
	}
	assert.Equal(t, fiber.StatusOK, get(t, app, http.MethodGet, "/api/notifications?limit=1", auth, &list))
	assert.Equal(t, int64(2), list.Data.Total)
	require.Len(t, list.Data.Items, 1)

	var count struct {
		Data struct {
			Count int64 `json:"count"`
		} `json:"data"`
	}
	get(t, app, http.MethodGet, "/api/notifications/unread-count", auth, &count)
	assert.Equal(t, int64(2), count.Data.Count)

	assert.Equal(t, fiber.StatusOK, get(t, app, http.MethodPatch, "/api/notifications/"+list.Data.Items[0].ID.String()+"/read", auth, nil))
	get(t, app, http.MethodGet, "/api/notifications/unread-count", auth, &count)
	assert.Equal(t, int64(1), count.Data.Count)

	assert.Equal(t, fiber.StatusOK, get(t, app, http.MethodPatch, "/api/notifications/read-all", auth, nil))
	get(t, app, http.MethodGet, "/api/notifications/unread-count", auth, &count)
	assert.Zero(t, count.Data.Count)
}

func TestNotificationHandler_Errors(t *testing.T) {
	app, _, auth := setup(t)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, http.MethodGet, "/api/notifications", "", nil))
	assert.Equal(t, fiber.StatusBadRequest, get(t, app, http.MethodPatch, "/api/notifications/not-a-uuid/read", auth, nil))
	assert.Equal(t, fiber.StatusNotFound, get(t, app, http.MethodPatch, "/api/notifications/"+uuid.NewString()+"/read", auth, nil))
}

func TestNotificationHandler_WebSocketNeedsToken(t *testing.T) {
	app, _, auth := setup(t)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, http.MethodGet, "/api/ws", "", nil))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, http.MethodGet, "/api/ws?token=garbage", "", nil))
	assert.Equal(t, fiber.StatusUpgradeRequired, get(t, app, http.MethodGet, "/api/ws", auth, nil))
}
