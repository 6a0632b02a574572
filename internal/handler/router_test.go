package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skillplus/backend/internal/learningplan"
	"github.com/skillplus/backend/internal/middleware"
	"github.com/skillplus/backend/internal/model"
)

type mockVerifier struct {
	verifyFn func(token string) (string, error)
}

func (m *mockVerifier) Verify(token string) (string, error) {
	return m.verifyFn(token)
}

type mockResolver struct {
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockResolver) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findByEmailFn(ctx, email)
}

type mockUserService struct {
	getFn           func(ctx context.Context, userID string) (*model.User, error)
	listFn          func(ctx context.Context) ([]*model.User, error)
	updateProfileFn func(ctx context.Context, name, profileImage string, acting *model.User) (*model.User, error)
}

func (m *mockUserService) Get(ctx context.Context, userID string) (*model.User, error) {
	return m.getFn(ctx, userID)
}
func (m *mockUserService) List(ctx context.Context) ([]*model.User, error) {
	return m.listFn(ctx)
}
func (m *mockUserService) UpdateProfile(ctx context.Context, name, profileImage string, acting *model.User) (*model.User, error) {
	return m.updateProfileFn(ctx, name, profileImage, acting)
}

// ルーティング検証用の空実装モック。個々のハンドラー動作は各ハンドラーのテストで検証する。

type mockPostService struct{}

func (mockPostService) Create(ctx context.Context, title, body string, acting *model.User) (*model.Post, error) {
	return &model.Post{}, nil
}
func (mockPostService) Get(ctx context.Context, postID string) (*model.Post, error) {
	return &model.Post{}, nil
}
func (mockPostService) List(ctx context.Context) ([]*model.Post, error) { return nil, nil }
func (mockPostService) ListByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	return nil, nil
}
func (mockPostService) Update(ctx context.Context, postID, title, body string, acting *model.User) (*model.Post, error) {
	return &model.Post{}, nil
}
func (mockPostService) Delete(ctx context.Context, postID string, acting *model.User) error {
	return nil
}

type mockNotificationService struct{}

func (mockNotificationService) List(ctx context.Context, acting *model.User) ([]*model.Notification, error) {
	return nil, nil
}
func (mockNotificationService) Delete(ctx context.Context, notificationID string, acting *model.User) error {
	return nil
}

type mockLearningPlanService struct{}

func (mockLearningPlanService) Create(ctx context.Context, input learningplan.PlanInput, acting *model.User) (*model.LearningPlan, error) {
	return &model.LearningPlan{}, nil
}
func (mockLearningPlanService) List(ctx context.Context) ([]*model.LearningPlanResponse, error) {
	return nil, nil
}
func (mockLearningPlanService) ListByUser(ctx context.Context, userID string) ([]*model.LearningPlanResponse, error) {
	return nil, nil
}
func (mockLearningPlanService) Update(ctx context.Context, planID string, input learningplan.PlanInput, acting *model.User) (*model.LearningPlan, error) {
	return &model.LearningPlan{}, nil
}
func (mockLearningPlanService) Delete(ctx context.Context, planID string, acting *model.User) error {
	return nil
}

type mockStatusService struct{}

func (mockStatusService) Create(ctx context.Context, content string, acting *model.User) (*model.Status, error) {
	return &model.Status{}, nil
}
func (mockStatusService) ListActive(ctx context.Context) ([]*model.Status, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	authedUser := &model.User{ID: "u1", Email: "alice@example.com", Name: "Alice"}

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	deps := &RouterDeps{
		TokenVerifier: &mockVerifier{
			verifyFn: func(token string) (string, error) {
				if token != "valid-token" {
					return "", model.NewInvalidTokenError()
				}
				return "alice@example.com", nil
			},
		},
		PrincipalResolver: &mockResolver{
			findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
				if email == "alice@example.com" {
					return authedUser, nil
				}
				return nil, nil
			},
		},
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       rl,
		Logger:            slog.New(slog.NewJSONHandler(io.Discard, nil)),

		AuthService: &mockAuthService{},
		AuthConfig:  testAuthConfig(),

		UserService: &mockUserService{
			listFn: func(ctx context.Context) ([]*model.User, error) {
				return []*model.User{authedUser}, nil
			},
		},
		PostService:         &mockPostService{},
		CommentService:      &mockCommentService{},
		NotificationService: &mockNotificationService{},
		LearningPlanService: &mockLearningPlanService{},
		StatusService:       &mockStatusService{},
	}

	return NewRouter(deps)
}

func TestRouter_Healthz_NoAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_ProtectedRoute_WithoutToken_Returns401(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRouter_ProtectedRoute_WithInvalidToken_Returns401(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer bogus-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRouter_ProtectedRoute_WithValidToken_Succeeds(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_Me_ReturnsPrincipal(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_SecurityHeaders_Present(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}
