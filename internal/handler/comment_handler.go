package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skillplus/backend/internal/model"
)

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	Create(ctx context.Context, postID, content string, acting *model.User) (*model.Comment, error)
	Update(ctx context.Context, commentID, content string, acting *model.User) (*model.Comment, error)
	Delete(ctx context.Context, commentID string, acting *model.User) error
	ListByPost(ctx context.Context, postID string) ([]*model.Comment, error)
}

// CommentHandler はコメント管理のHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

type commentRequest struct {
	Content string `json:"content"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentResponse(c *model.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// CreateComment は投稿にコメントを付ける。
// POST /api/posts/{id}/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	acting, ok := principal(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	comment, err := h.service.Create(r.Context(), chi.URLParam(r, "id"), req.Content, acting)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// ListComments は投稿のコメント一覧を返す。
// GET /api/posts/{id}/comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListByPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]commentResponse, len(comments))
	for i, c := range comments {
		responses[i] = toCommentResponse(c)
	}
	writeJSON(w, http.StatusOK, responses)
}

// UpdateComment はコメント本文を更新する。コメント主のみ。
// PUT /api/comments/{id}
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	acting, ok := principal(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	comment, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.Content, acting)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

// DeleteComment はコメントを削除する。コメント主または投稿主のみ。
// DELETE /api/comments/{id}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
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
