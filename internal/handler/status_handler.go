package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/skillplus/backend/internal/model"
)

// StatusServiceInterface はステータスハンドラーが必要とするサービスインターフェース。
type StatusServiceInterface interface {
	Create(ctx context.Context, content string, acting *model.User) (*model.Status, error)
	ListActive(ctx context.Context) ([]*model.Status, error)
}

// StatusHandler は一時ステータス管理のHTTPハンドラー。
type StatusHandler struct {
	service StatusServiceInterface
}

// NewStatusHandler はStatusHandlerを生成する。
func NewStatusHandler(service StatusServiceInterface) *StatusHandler {
	return &StatusHandler{service: service}
}

type statusRequest struct {
	Content string `json:"content"`
}

type statusResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toStatusResponse(s *model.Status) statusResponse {
	return statusResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Content:   s.Content,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

// CreateStatus は一時ステータスを作成する。
// POST /api/statuses
func (h *StatusHandler) CreateStatus(w http.ResponseWriter, r *http.Request) {
	acting, ok := principal(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	status, err := h.service.Create(r.Context(), req.Content, acting)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStatusResponse(status))
}

// ListStatuses は失効していないステータスの一覧を返す。
// GET /api/statuses
func (h *StatusHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.ListActive(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]statusResponse, len(statuses))
	for i, s := range statuses {
		responses[i] = toStatusResponse(s)
	}
	writeJSON(w, http.StatusOK, responses)
}
