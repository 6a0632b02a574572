// Package post は投稿のドメインロジックを提供する。
//
// 投稿の所有者と作成日時はサーバー側で確定する。更新・削除は
// 投稿主のみ行える。投稿の削除で紐づくコメントはDBのCASCADEで消える。
package post

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillplus/backend/internal/model"
	"github.com/skillplus/backend/internal/repository"
	"github.com/skillplus/backend/internal/security"
)

// Service は投稿のサービス層。
type Service struct {
	postRepo  repository.PostRepository
	sanitizer security.ContentSanitizerService
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(postRepo repository.PostRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		postRepo:  postRepo,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// Create は投稿を作成する。ID・所有者・作成日時はサーバー側で確定する。
func (s *Service) Create(ctx context.Context, title, body string, acting *model.User) (*model.Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, model.NewEmptyContentError("タイトル")
	}
	if strings.TrimSpace(body) == "" {
		return nil, model.NewEmptyContentError("本文")
	}

	now := s.now().UTC()
	post := &model.Post{
		ID:        uuid.NewString(),
		UserID:    acting.ID,
		Title:     strings.TrimSpace(title),
		Body:      s.sanitizer.Sanitize(body),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("投稿の作成に失敗しました: %w", err)
	}
	return post, nil
}

// Get は指定IDの投稿を返す。
func (s *Service) Get(ctx context.Context, postID string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}
	return post, nil
}

// List は全投稿を作成日時の降順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗しました: %w", err)
	}
	return posts, nil
}

// ListByUser は指定ユーザーの投稿を作成日時の降順で返す。
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	posts, err := s.postRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗しました: %w", err)
	}
	return posts, nil
}

// Update は投稿のタイトルと本文を更新する。投稿主のみ更新できる。
// 存在確認を所有チェックより先に行う。所有者と作成日時は変更しない。
func (s *Service) Update(ctx context.Context, postID, title, body string, acting *model.User) (*model.Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, model.NewEmptyContentError("タイトル")
	}
	if strings.TrimSpace(body) == "" {
		return nil, model.NewEmptyContentError("本文")
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	if post.UserID != acting.ID {
		return nil, model.NewForbiddenError()
	}

	post.Title = strings.TrimSpace(title)
	post.Body = s.sanitizer.Sanitize(body)
	post.UpdatedAt = s.now().UTC()

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("投稿の更新に失敗しました: %w", err)
	}
	return post, nil
}

// Delete は投稿を削除する。投稿主のみ削除できる。
// 存在確認を所有チェックより先に行う。
func (s *Service) Delete(ctx context.Context, postID string, acting *model.User) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return model.NewPostNotFoundError(postID)
	}

	if post.UserID != acting.ID {
		return model.NewForbiddenError()
	}

	if err := s.postRepo.DeleteByID(ctx, postID); err != nil {
		return fmt.Errorf("投稿の削除に失敗しました: %w", err)
	}
	return nil
}
