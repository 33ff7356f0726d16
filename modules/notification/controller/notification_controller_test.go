package controller_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"event-manager-api/core/errors"
	"event-manager-api/core/middleware"
	"event-manager-api/core/params"
	"event-manager-api/core/utils"
	"event-manager-api/modules/notification/controller"
	"event-manager-api/modules/notification/dto"
	"event-manager-api/modules/notification/entity"
	"event-manager-api/modules/notification/router"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inbox struct {
	items map[uuid.UUID][]entity.Notification
}

func (s *inbox) Create(_ context.Context, req *dto.CreateNotificationRequest) error {
	n := entity.Notification{UserID: req.UserID, Title: req.Title, Type: req.Type}
	n.ID = uuid.New()
	s.items[req.UserID] = append(s.items[req.UserID], n)
	return nil
}

func (s *inbox) GetMyNotifications(_ context.Context, userID uuid.UUID, q params.QueryParams) (*entity.PaginatedNotificationEntity, *errors.AppError) {
	return &entity.PaginatedNotificationEntity{
		Items:      s.items[userID],
		TotalItems: len(s.items[userID]),
		PageNumber: q.PageNumber,
		PageSize:   q.PageSize,
	}, nil
}

func (s *inbox) MarkAsRead(_ context.Context, userID uuid.UUID, ids []uuid.UUID) *errors.AppError {
	for i := range s.items[userID] {
		for _, id := range ids {
			if s.items[userID][i].ID == id {
				s.items[userID][i].IsRead = true
			}
		}
	}
	return nil
}

func (s *inbox) MarkAllAsRead(_ context.Context, userID uuid.UUID) *errors.AppError {
	for i := range s.items[userID] {
		s.items[userID][i].IsRead = true
	}
	return nil
}

func (s *inbox) CountUnread(_ context.Context, userID uuid.UUID) (int, *errors.AppError) {
	count := 0
	for _, n := range s.items[userID] {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func TestNotificationRoutes(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	userID := uuid.New()
	token, err := tokens.GenerateToken(userID, "uma@example.com", "access")
	require.NoError(t, err)

	svc := &inbox{items: map[uuid.UUID][]entity.Notification{}}
	require.NoError(t, svc.Create(context.Background(), &dto.CreateNotificationRequest{UserID: userID, Title: "Event Invitation: Standup", Type: "event_invite"}))
	require.NoError(t, svc.Create(context.Background(), &dto.CreateNotificationRequest{UserID: userID, Title: "Event Invitation: Retro", Type: "event_invite"}))

	e := echo.New()
	router.NewNotificationRouter(controller.NewNotificationController(svc)).Register(e.Group("/api"), middleware.NewMiddleware(tokens, nil))

	do := func(method, path, body string, auth bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if auth {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/api/notifications", "", false).Code)

	rec := do(http.MethodGet, "/api/notifications?page=1&limit=10", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Event Invitation: Standup")
	assert.Contains(t, rec.Body.String(), `"total_items":2`)

	rec = do(http.MethodGet, "/api/notifications/unread-count", "", true)
	assert.Contains(t, rec.Body.String(), `"count":2`)

	first := svc.items[userID][0].ID
	rec = do(http.MethodPut, "/api/notifications/mark-read", `{"ids":["`+first.String()+`"]}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodGet, "/api/notifications/unread-count", "", true)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = do(http.MethodPut, "/api/notifications/mark-read", `{"ids":[]}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodPut, "/api/notifications/mark-all-read", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodGet, "/api/notifications/unread-count", "", true)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}
