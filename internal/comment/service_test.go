package comment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skillplus/backend/internal/model"
)

// --- モック ---

type mockCommentRepo struct {
	findByIDFn     func(ctx context.Context, id string) (*model.Comment, error)
	listByPostIDFn func(ctx context.Context, postID string) ([]*model.Comment, error)
	createFn       func(ctx context.Context, comment *model.Comment) error
	updateFn       func(ctx context.Context, comment *model.Comment) error
	deleteByIDFn   func(ctx context.Context, id string) error
}

func (m *mockCommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockCommentRepo) ListByPostID(ctx context.Context, postID string) ([]*model.Comment, error) {
	if m.listByPostIDFn != nil {
		return m.listByPostIDFn(ctx, postID)
	}
	return nil, nil
}
func (m *mockCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	return m.createFn(ctx, comment)
}
func (m *mockCommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, comment)
	}
	return nil
}
func (m *mockCommentRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

type mockPostRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.Post, error)
}

func (m *mockPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockPostRepo) Create(ctx context.Context, post *model.Post) error { return nil }
func (m *mockPostRepo) Update(ctx context.Context, post *model.Post) error { return nil }
func (m *mockPostRepo) DeleteByID(ctx context.Context, id string) error    { return nil }
func (m *mockPostRepo) List(ctx context.Context) ([]*model.Post, error)    { return nil, nil }
func (m *mockPostRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Post, error) {
	return nil, nil
}

type mockNotifier struct {
	notifyFn func(ctx context.Context, recipientUserID, message string) error
	calls    []mockNotifyCall
}

type mockNotifyCall struct {
	recipientUserID string
	message         string
}

func (m *mockNotifier) Notify(ctx context.Context, recipientUserID, message string) error {
	m.calls = append(m.calls, mockNotifyCall{recipientUserID: recipientUserID, message: message})
	if m.notifyFn != nil {
		return m.notifyFn(ctx, recipientUserID, message)
	}
	return nil
}

type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(rawHTML string) string { return rawHTML }

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

// --- テスト ---

func TestCreate_PersistsCommentAndNotifiesPostOwner(t *testing.T) {
	post := &model.Post{ID: "post-1", UserID: "owner-1", Title: "Learning Go"}
	acting := &model.User{ID: "commenter-1", Name: "Alice", Email: "alice@example.com"}

	var created *model.Comment
	commentRepo := &mockCommentRepo{
		createFn: func(ctx context.Context, c *model.Comment) error {
			created = c
			return nil
		},
	}
	postRepo := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) { return post, nil },
	}
	notifier := &mockNotifier{}

	svc := NewService(commentRepo, postRepo, notifier, passthroughSanitizer{}, nil)
	svc.now = func() time.Time { return time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC) }

	comment, err := svc.Create(context.Background(), "post-1", "Great post", acting)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	if created == nil {
		t.Fatal("コメントが永続化されていない")
	}
	if comment.ID == "" {
		t.Error("IDがサーバー側で採番されていない")
	}
	if comment.PostID != "post-1" || comment.UserID != "commenter-1" {
		t.Errorf("PostID/UserID = %s/%s, want post-1/commenter-1", comment.PostID, comment.UserID)
	}
	if comment.CreatedAt.IsZero() {
		t.Error("CreatedAtがサーバー側で設定されていない")
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("通知回数 = %d, want 1", len(notifier.calls))
	}
	call := notifier.calls[0]
	if call.recipientUserID != "owner-1" {
		t.Errorf("通知先 = %s, want owner-1", call.recipientUserID)
	}
	want := "Alice commented on your post: Learning Go"
	if call.message != want {
		t.Errorf("通知メッセージ = %q, want %q", call.message, want)
	}
}

func TestCreate_NoSelfNotification(t *testing.T) {
	post := &model.Post{ID: "post-1", UserID: "owner-1", Title: "Learning Go"}
	acting := &model.User{ID: "owner-1", Name: "Owner"}

	commentRepo := &mockCommentRepo{
		createFn: func(ctx context.Context, c *model.Comment) error { return nil },
	}
	postRepo := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) { return post, nil },
	}
	notifier := &mockNotifier{}

	svc := NewService(commentRepo, postRepo, notifier, passthroughSanitizer{}, nil)

	if _, err := svc.Create(context.Background(), "post-1", "my own post", acting); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Errorf("自分の投稿へのコメントで通知が生成された: %d件", len(notifier.calls))
	}
}

func TestCreate_NotificationFailureDoesNotFailCreate(t *testing.T) {
	post := &model.Post{ID: "post-1", UserID: "owner-1", Title: "Learning Go"}
	acting := &model.User{ID: "commenter-1", Name: "Alice"}

	commentRepo := &mockCommentRepo{
		createFn: func(ctx context.Context, c *model.Comment) error { return nil },
	}
	postRepo := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) { return post, nil },
	}
	notifier := &mockNotifier{
		notifyFn: func(ctx context.Context, recipientUserID, message string) error {
			return errors.New("notification store down")
		},
	}

	svc := NewService(commentRepo, postRepo, notifier, passthroughSanitizer{}, nil)

	comment, err := svc.Create(context.Background(), "post-1", "still works", acting)
	if err != nil {
		t.Fatalf("通知失敗がコメント作成に伝播した: %v", err)
	}
	if comment == nil {
		t.Fatal("作成済みコメントが返されなかった")
	}
}

func TestCreate_PostNotFound(t *testing.T) {
	createCalled := false
	commentRepo := &mockCommentRepo{
		createFn: func(ctx context.Context, c *model.Comment) error {
			createCalled = true
			return nil
		},
	}
	postRepo := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) { return nil, nil },
	}

	svc := NewService(commentRepo, postRepo, &mockNotifier{}, passthroughSanitizer{}, nil)

	_, err := svc.Create(context.Background(), "missing", "content", &model.User{ID: "u1"})
	assertAPIErrorCode(t, err, model.ErrCodePostNotFound)
	if createCalled {
		t.Error("存在しない投稿に対してコメントが永続化された")
	}
}

func TestCreate_EmptyContent(t *testing.T) {
	svc := NewService(&mockCommentRepo{}, &mockPostRepo{}, &mockNotifier{}, passthroughSanitizer{}, nil)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Create(context.Background(), "post-1", content, &model.User{ID: "u1"})
		assertAPIErrorCode(t, err, model.ErrCodeEmptyContent)
	}
}

func TestUpdate_OnlyCommentOwner(t *testing.T) {
	comment := &model.Comment{ID: "c1", PostID: "post-1", UserID: "commenter-1", Content: "old"}

	tests := []struct {
		name     string
		acting   *model.User
		wantCode string
	}{
		{name: "コメント主は更新できる", acting: &model.User{ID: "commenter-1"}},
		{name: "投稿主でも他人のコメントは更新できない", acting: &model.User{ID: "owner-1"}, wantCode: model.ErrCodeForbidden},
		{name: "第三者は更新できない", acting: &model.User{ID: "stranger"}, wantCode: model.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *comment
			commentRepo := &mockCommentRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) { return &c, nil },
			}
			svc := NewService(commentRepo, &mockPostRepo{}, &mockNotifier{}, passthroughSanitizer{}, nil)

			updated, err := svc.Update(context.Background(), "c1", "new content", tt.acting)
			if tt.wantCode != "" {
				assertAPIErrorCode(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			if updated.Content != "new content" {
				t.Errorf("Content = %q, want %q", updated.Content, "new content")
			}
			if updated.UserID != "commenter-1" || updated.PostID != "post-1" {
				t.Error("本文以外の属性が変更された")
			}
		})
	}
}

func TestUpdate_NotFoundBeforeOwnership(t *testing.T) {
	commentRepo := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) { return nil, nil },
	}
	svc := NewService(commentRepo, &mockPostRepo{}, &mockNotifier{}, passthroughSanitizer{}, nil)

	_, err := svc.Update(context.Background(), "missing", "content", &model.User{ID: "stranger"})
	assertAPIErrorCode(t, err, model.ErrCodeCommentNotFound)
}

func TestDelete_CommentOwnerOrPostOwner(t *testing.T) {
	comment := &model.Comment{ID: "c1", PostID: "post-1", UserID: "commenter-1"}
	post := &model.Post{ID: "post-1", UserID: "owner-1"}

	tests := []struct {
		name     string
		acting   *model.User
		wantCode string
	}{
		{name: "コメント主は削除できる", acting: &model.User{ID: "commenter-1"}},
		{name: "投稿主も削除できる", acting: &model.User{ID: "owner-1"}},
		{name: "第三者は削除できない", acting: &model.User{ID: "stranger"}, wantCode: model.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			commentRepo := &mockCommentRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) { return comment, nil },
				deleteByIDFn: func(ctx context.Context, id string) error {
					deleted = true
					return nil
				},
			}
			postRepo := &mockPostRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.Post, error) { return post, nil },
			}
			svc := NewService(commentRepo, postRepo, &mockNotifier{}, passthroughSanitizer{}, nil)

			err := svc.Delete(context.Background(), "c1", tt.acting)
			if tt.wantCode != "" {
				assertAPIErrorCode(t, err, tt.wantCode)
				if deleted {
					t.Error("権限のないユーザーの削除が実行された")
				}
				return
			}
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			if !deleted {
				t.Error("削除が実行されなかった")
			}
		})
	}
}

func TestDelete_NotFoundBeforeOwnership(t *testing.T) {
	commentRepo := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) { return nil, nil },
	}
	svc := NewService(commentRepo, &mockPostRepo{}, &mockNotifier{}, passthroughSanitizer{}, nil)

	err := svc.Delete(context.Background(), "missing", &model.User{ID: "stranger"})
	assertAPIErrorCode(t, err, model.ErrCodeCommentNotFound)
}

func TestListByPost_PostNotFound(t *testing.T) {
	postRepo := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) { return nil, nil },
	}
	svc := NewService(&mockCommentRepo{}, postRepo, &mockNotifier{}, passthroughSanitizer{}, nil)

	_, err := svc.ListByPost(context.Background(), "missing")
	assertAPIErrorCode(t, err, model.ErrCodePostNotFound)
}

func TestListByPost_ReturnsComments(t *testing.T) {
	post := &model.Post{ID: "post-1", UserID: "owner-1"}
	comments := []*model.Comment{
		{ID: "c1", PostID: "post-1"},
		{ID: "c2", PostID: "post-1"},
	}

	commentRepo := &mockCommentRepo{
		listByPostIDFn: func(ctx context.Context, postID string) ([]*model.Comment, error) { return comments, nil },
	}
	postRepo := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) { return post, nil },
	}
	svc := NewService(commentRepo, postRepo, &mockNotifier{}, passthroughSanitizer{}, nil)

	got, err := svc.ListByPost(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("コメント数 = %d, want 2", len(got))
	}
}
