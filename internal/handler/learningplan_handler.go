package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skillplus/backend/internal/learningplan"
	"github.com/skillplus/backend/internal/model"
)

// LearningPlanServiceInterface は学習プランハンドラーが必要とするサービスインターフェース。
type LearningPlanServiceInterface interface {
	Create(ctx context.Context, input learningplan.PlanInput, acting *model.User) (*model.LearningPlan, error)
	List(ctx context.Context) ([]*model.LearningPlanResponse, error)
	ListByUser(ctx context.Context, userID string) ([]*model.LearningPlanResponse, error)
	Update(ctx context.Context, planID string, input learningplan.PlanInput, acting *model.User) (*model.LearningPlan, error)
	Delete(ctx context.Context, planID string, acting *model.User) error
}

// LearningPlanHandler は学習プラン管理のHTTPハンドラー。
type LearningPlanHandler struct {
	service LearningPlanServiceInterface
}

// NewLearningPlanHandler はLearningPlanHandlerを生成する。
func NewLearningPlanHandler(service LearningPlanServiceInterface) *LearningPlanHandler {
	return &LearningPlanHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

type learningPlanRequest struct {
	Title      string    `json:"title"`
	Topics     string    `json:"topics"`
	Resources  string    `json:"resources"`
	TargetDate time.Time `json:"target_date"`
	Progress   int       `json:"progress"`
}

func (req learningPlanRequest) toInput() learningplan.PlanInput {
	return learningplan.PlanInput{
		Title:      req.Title,
		Topics:     req.Topics,
		Resources:  req.Resources,
		TargetDate: req.TargetDate,
		Progress:   req.Progress,
	}
}

type learningPlanResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Topics       string    `json:"topics"`
	Resources    string    `json:"resources"`
	TargetDate   time.Time `json:"target_date"`
	Progress     int       `json:"progress"`
	Username     string    `json:"username"`
	ProfileImage string    `json:"profile_image,omitempty"`
}

func toLearningPlanResponses(plans []*model.LearningPlanResponse) []learningPlanResponse {
	responses := make([]learningPlanResponse, len(plans))
	for i, p := range plans {
		responses[i] = learningPlanResponse{
			ID:           p.ID,
			Title:        p.Title,
			Topics:       p.Topics,
			Resources:    p.Resources,
			TargetDate:   p.TargetDate,
			Progress:     p.Progress,
			Username:     p.Username,
			ProfileImage: p.ProfileImage,
		}
	}
	return responses
}

type learningPlanDetailResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Topics     string    `json:"topics"`
	Resources  string    `json:"resources"`
	TargetDate time.Time `json:"target_date"`
	Progress   int       `json:"progress"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toLearningPlanDetail(p *model.LearningPlan) learningPlanDetailResponse {
	return learningPlanDetailResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		Title:      p.Title,
		Topics:     p.Topics,
		Resources:  p.Resources,
		TargetDate: p.TargetDate,
		Progress:   p.Progress,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// CreatePlan は学習プランを作成する。
// POST /api/learning-plans
func (h *LearningPlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	acting, ok := principal(w, r)
	if !ok {
		return
	}

	var req learningPlanRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	plan, err := h.service.Create(r.Context(), req.toInput(), acting)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLearningPlanDetail(plan))
}

// ListPlans は全学習プランを作成者情報付きで返す。
// GET /api/learning-plans
func (h *LearningPlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLearningPlanResponses(plans))
}

// ListUserPlans は指定ユーザーの学習プラン一覧を返す。
// GET /api/users/{id}/learning-plans
func (h *LearningPlanHandler) ListUserPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.ListByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLearningPlanResponses(plans))
}

// UpdatePlan は学習プランを更新する。作成者のみ。
// PUT /api/learning-plans/{id}
func (h *LearningPlanHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	acting, ok := principal(w, r)
	if !ok {
		return
	}

	var req learningPlanRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	plan, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toInput(), acting)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLearningPlanDetail(plan))
}

// DeletePlan は学習プランを削除する。作成者のみ。
// DELETE /api/learning-plans/{id}
func (h *LearningPlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
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
