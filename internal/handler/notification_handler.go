package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skillplus/backend/internal/model"
)

// NotificationServiceInterface は通知ハンドラーが必要とするサービスインターフェース。
type NotificationServiceInterface interface {
	List(ctx context.Context, acting *model.User) ([]*model.Notification, error)
	Delete(ctx context.Context, notificationID string, acting *model.User) error
}

// NotificationHandler は通知管理のHTTPハンドラー。
type NotificationHandler struct {
	service NotificationServiceInterface
}

// NewNotificationHandler はNotificationHandlerを生成する。
func NewNotificationHandler(service NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ListNotifications は自分宛の通知一覧を新しい順で返す。
// GET /api/notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	acting, ok := principal(w, r)
	if !ok {
		return
	}

	notifications, err := h.service.List(r.Context(), acting)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]notificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			Timestamp: n.Timestamp,
		}
	}
	writeJSON(w, http.StatusOK, responses)
}

// DeleteNotification は自分宛の通知を削除する。
// DELETE /api/notifications/{id}
func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	acting, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), acting); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
