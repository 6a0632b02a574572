// Package comment はコメントのドメインロジックを提供する。
//
// コメントの所有者・対象投稿・作成日時はすべてサーバー側で確定する。
// 更新はコメント主のみ、削除はコメント主または投稿主が行える。
// コメント作成時には投稿主への通知を副作用として生成するが、
// 通知の失敗はコメント作成の成否に影響しない（ベストエフォート）。
package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillplus/backend/internal/model"
	"github.com/skillplus/backend/internal/repository"
	"github.com/skillplus/backend/internal/security"
)

// Notifier は通知の生成インターフェース。
type Notifier interface {
	// Notify は指定ユーザー宛の通知を作成する。
	Notify(ctx context.Context, recipientUserID, message string) error
}

// MetricsRecorder はコメント関連メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordCommentCreated()
	RecordNotificationCreated()
	RecordNotificationFailure()
}

// Service はコメントのサービス層。
type Service struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	notifier    Notifier
	sanitizer   security.ContentSanitizerService
	metrics     MetricsRecorder
	now         func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい（記録をスキップする）。
func NewService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	notifier Notifier,
	sanitizer security.ContentSanitizerService,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		notifier:    notifier,
		sanitizer:   sanitizer,
		metrics:     metrics,
		now:         time.Now,
	}
}

// Create は投稿に対するコメントを作成する。
// ID・コメント主・対象投稿・作成日時はサーバー側で確定し、
// クライアントから送られた値は本文以外信用しない。
// 対象投稿が存在しない場合はコメントを作成せずPostNotFoundを返す。
// 永続化成功後、投稿主宛の通知を同期的に生成する。自分の投稿への
// コメントでは通知しない。通知の失敗はログとメトリクスに記録するのみで、
// 作成済みコメントはそのまま返す。
func (s *Service) Create(ctx context.Context, postID, content string, acting *model.User) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, model.NewEmptyContentError("コメント本文")
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	comment := &model.Comment{
		ID:        uuid.NewString(),
		PostID:    post.ID,
		UserID:    acting.ID,
		Content:   s.sanitizer.Sanitize(content),
		CreatedAt: s.now().UTC(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("コメントの作成に失敗しました: %w", err)
	}
	s.recordCommentCreated()

	// コメントの永続化が成功した後にのみ通知を生成する
	if post.UserID != acting.ID {
		message := fmt.Sprintf("%s commented on your post: %s", acting.Name, post.Title)
		if err := s.notifier.Notify(ctx, post.UserID, message); err != nil {
			slog.Warn("通知の作成に失敗しました",
				slog.String("comment_id", comment.ID),
				slog.String("post_id", post.ID),
				slog.String("recipient_user_id", post.UserID),
				slog.String("error", err.Error()),
			)
			s.recordNotificationFailure()
		} else {
			s.recordNotificationCreated()
		}
	}

	return comment, nil
}

// Update はコメント本文を更新する。コメント主のみ更新できる。
// 存在確認を所有チェックより先に行う。本文以外の属性は変更しない。
func (s *Service) Update(ctx context.Context, commentID, content string, acting *model.User) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, model.NewEmptyContentError("コメント本文")
	}

	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("コメントの取得に失敗しました: %w", err)
	}
	if comment == nil {
		return nil, model.NewCommentNotFoundError(commentID)
	}

	if comment.UserID != acting.ID {
		return nil, model.NewForbiddenError()
	}

	comment.Content = s.sanitizer.Sanitize(content)
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("コメントの更新に失敗しました: %w", err)
	}
	return comment, nil
}

// Delete はコメントを削除する。コメント主に加えて、コメント先の
// 投稿主も削除できる（自分の投稿を自浄する権利）。
// 存在確認を所有チェックより先に行う。
func (s *Service) Delete(ctx context.Context, commentID string, acting *model.User) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("コメントの取得に失敗しました: %w", err)
	}
	if comment == nil {
		return model.NewCommentNotFoundError(commentID)
	}

	post, err := s.postRepo.FindByID(ctx, comment.PostID)
	if err != nil {
		return fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}

	isCommentOwner := comment.UserID == acting.ID
	isPostOwner := post != nil && post.UserID == acting.ID
	if !isCommentOwner && !isPostOwner {
		return model.NewForbiddenError()
	}

	if err := s.commentRepo.DeleteByID(ctx, commentID); err != nil {
		return fmt.Errorf("コメントの削除に失敗しました: %w", err)
	}
	return nil
}

// ListByPost は投稿のコメントを作成日時の昇順で返す。
// 投稿が存在しない場合はPostNotFoundを返す。
func (s *Service) ListByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	comments, err := s.commentRepo.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗しました: %w", err)
	}
	return comments, nil
}

func (s *Service) recordCommentCreated() {
	if s.metrics != nil {
		s.metrics.RecordCommentCreated()
	}
}

func (s *Service) recordNotificationCreated() {
	if s.metrics != nil {
		s.metrics.RecordNotificationCreated()
	}
}

func (s *Service) recordNotificationFailure() {
	if s.metrics != nil {
		s.metrics.RecordNotificationFailure()
	}
}
