package learningplan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skillplus/backend/internal/model"
)

type mockPlanRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*model.LearningPlan, error)
	createFn     func(ctx context.Context, plan *model.LearningPlan) error
	updateFn     func(ctx context.Context, plan *model.LearningPlan) error
	deleteByIDFn func(ctx context.Context, id string) error
	listFn       func(ctx context.Context) ([]*model.LearningPlan, error)
}

func (m *mockPlanRepo) FindByID(ctx context.Context, id string) (*model.LearningPlan, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockPlanRepo) Create(ctx context.Context, plan *model.LearningPlan) error {
	return m.createFn(ctx, plan)
}
func (m *mockPlanRepo) Update(ctx context.Context, plan *model.LearningPlan) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, plan)
	}
	return nil
}
func (m *mockPlanRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}
func (m *mockPlanRepo) List(ctx context.Context) ([]*model.LearningPlan, error) {
	return m.listFn(ctx)
}
func (m *mockPlanRepo) ListByUserID(ctx context.Context, userID string) ([]*model.LearningPlan, error) {
	return nil, nil
}

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
	calls      int
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	m.calls++
	return m.findByIDFn(ctx, id)
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error)    { return nil, nil }

func assertAPIErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("APIErrorを期待したが異なるエラーが返った: %v", err)
	}
	if apiErr.Code != code {
		t.Errorf("エラーコード = %s, want %s", apiErr.Code, code)
	}
}

func TestCreate_SetsServerSideFieldsAndClampsProgress(t *testing.T) {
	var created *model.LearningPlan
	planRepo := &mockPlanRepo{
		createFn: func(ctx context.Context, p *model.LearningPlan) error {
			created = p
			return nil
		},
	}

	svc := NewService(planRepo, &mockUserRepo{})
	fixed := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	input := PlanInput{
		Title:    "  Go基礎  ",
		Topics:   "goroutine, channel",
		Progress: 150,
	}
	plan, err := svc.Create(context.Background(), input, &model.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	if created == nil {
		t.Fatal("学習プランが永続化されていない")
	}
	if plan.ID == "" || plan.UserID != "user-1" {
		t.Error("ID・所有者がサーバー側で設定されていない")
	}
	if plan.Title != "Go基礎" {
		t.Errorf("Title = %q, want %q", plan.Title, "Go基礎")
	}
	if plan.Progress != 100 {
		t.Errorf("Progress = %d, want 100（上限に丸める）", plan.Progress)
	}
}

func TestCreate_EmptyTitle(t *testing.T) {
	svc := NewService(&mockPlanRepo{}, &mockUserRepo{})

	_, err := svc.Create(context.Background(), PlanInput{Title: " "}, &model.User{ID: "u1"})
	assertAPIErrorCode(t, err, model.ErrCodeEmptyContent)
}

func TestList_JoinsAuthorInfo(t *testing.T) {
	plans := []*model.LearningPlan{
		{ID: "p1", UserID: "user-1", Title: "Go基礎"},
		{ID: "p2", UserID: "user-1", Title: "Go応用"},
		{ID: "p3", UserID: "ghost", Title: "作成者不明"},
	}
	planRepo := &mockPlanRepo{
		listFn: func(ctx context.Context) ([]*model.LearningPlan, error) { return plans, nil },
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			if id == "user-1" {
				return &model.User{ID: "user-1", Name: "Alice", ProfileImage: "https://example.com/a.png"}, nil
			}
			return nil, nil
		},
	}

	svc := NewService(planRepo, userRepo)
	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("件数 = %d, want 3", len(got))
	}
	if got[0].Username != "Alice" || got[0].ProfileImage != "https://example.com/a.png" {
		t.Errorf("作成者情報が結合されていない: %+v", got[0])
	}
	if got[2].Username != "Anonymous" {
		t.Errorf("解決できない作成者 = %q, want Anonymous", got[2].Username)
	}
	// 同一作成者の解決は1回にまとめる（user-1とghostで計2回）
	if userRepo.calls != 2 {
		t.Errorf("ユーザー解決回数 = %d, want 2", userRepo.calls)
	}
}

func TestUpdate_OwnerOnly(t *testing.T) {
	existing := &model.LearningPlan{ID: "p1", UserID: "owner-1", Title: "old"}

	tests := []struct {
		name     string
		acting   *model.User
		wantCode string
	}{
		{name: "作成者は更新できる", acting: &model.User{ID: "owner-1"}},
		{name: "他人は更新できない", acting: &model.User{ID: "stranger"}, wantCode: model.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := *existing
			planRepo := &mockPlanRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.LearningPlan, error) { return &p, nil },
			}
			svc := NewService(planRepo, &mockUserRepo{})

			updated, err := svc.Update(context.Background(), "p1", PlanInput{Title: "new", Progress: 50}, tt.acting)
			if tt.wantCode != "" {
				assertAPIErrorCode(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			if updated.Title != "new" || updated.Progress != 50 {
				t.Error("更新内容が反映されていない")
			}
			if updated.UserID != "owner-1" {
				t.Error("所有者が変更された")
			}
		})
	}
}

func TestUpdate_NotFoundBeforeOwnership(t *testing.T) {
	planRepo := &mockPlanRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.LearningPlan, error) { return nil, nil },
	}
	svc := NewService(planRepo, &mockUserRepo{})

	_, err := svc.Update(context.Background(), "missing", PlanInput{Title: "t"}, &model.User{ID: "stranger"})
	assertAPIErrorCode(t, err, model.ErrCodePlanNotFound)
}

func TestDelete_OwnerOnly(t *testing.T) {
	existing := &model.LearningPlan{ID: "p1", UserID: "owner-1"}

	deleted := false
	planRepo := &mockPlanRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.LearningPlan, error) { return existing, nil },
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := NewService(planRepo, &mockUserRepo{})

	if err := svc.Delete(context.Background(), "p1", &model.User{ID: "stranger"}); err == nil {
		t.Error("他人の削除が許可された")
	}
	if deleted {
		t.Error("権限のないユーザーの削除が実行された")
	}

	if err := svc.Delete(context.Background(), "p1", &model.User{ID: "owner-1"}); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if !deleted {
		t.Error("削除が実行されなかった")
	}
}
