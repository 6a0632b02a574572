// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/skillplus/backend/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	// メールアドレスはローカル認証とソーシャル認証を突き合わせる唯一のキー。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// Update はユーザー情報を更新する。
	Update(ctx context.Context, user *model.User) error

	// List は全ユーザーを返す。
	List(ctx context.Context) ([]*model.User, error)
}

// PostRepository は投稿データの永続化インターフェース。
type PostRepository interface {
	// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// Create は投稿を作成する。
	Create(ctx context.Context, post *model.Post) error

	// Update は投稿を更新する。所有者と作成日時は変更しない。
	Update(ctx context.Context, post *model.Post) error

	// DeleteByID は指定IDの投稿を削除する。
	DeleteByID(ctx context.Context, id string) error

	// List は全投稿を作成日時の降順で返す。
	List(ctx context.Context) ([]*model.Post, error)

	// ListByUserID は指定ユーザーの投稿を作成日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Post, error)
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Comment, error)

	// ListByPostID は指定投稿のコメントを作成日時の昇順で返す。
	ListByPostID(ctx context.Context, postID string) ([]*model.Comment, error)

	// Create はコメントを作成する。
	Create(ctx context.Context, comment *model.Comment) error

	// Update はコメントを更新する。本文のみ可変。
	Update(ctx context.Context, comment *model.Comment) error

	// DeleteByID は指定IDのコメントを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// NotificationRepository は通知データの永続化インターフェース。
type NotificationRepository interface {
	// FindByID は指定IDの通知を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Notification, error)

	// Create は通知を作成する。
	Create(ctx context.Context, notification *model.Notification) error

	// ListByUserID は指定ユーザー宛の通知を新しい順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Notification, error)

	// DeleteByID は指定IDの通知を削除する。
	DeleteByID(ctx context.Context, id string) error
}

// LearningPlanRepository は学習プランデータの永続化インターフェース。
type LearningPlanRepository interface {
	// FindByID は指定IDの学習プランを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.LearningPlan, error)

	// Create は学習プランを作成する。
	Create(ctx context.Context, plan *model.LearningPlan) error

	// Update は学習プランを更新する。
	Update(ctx context.Context, plan *model.LearningPlan) error

	// DeleteByID は指定IDの学習プランを削除する。
	DeleteByID(ctx context.Context, id string) error

	// List は全学習プランを作成日時の降順で返す。
	List(ctx context.Context) ([]*model.LearningPlan, error)

	// ListByUserID は指定ユーザーの学習プランを作成日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.LearningPlan, error)
}

// StatusRepository は一時ステータスデータの永続化インターフェース。
type StatusRepository interface {
	// Create はステータスを作成する。
	Create(ctx context.Context, status *model.Status) error

	// ListActive は失効していないステータスを作成日時の降順で返す。
	ListActive(ctx context.Context, now time.Time) ([]*model.Status, error)

	// DeleteExpired は失効したステータスを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
