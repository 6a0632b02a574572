// Package notification は通知のドメインロジックを提供する。
//
// 通知はコメント作成などのドメインイベントの副作用としてのみ生成され、
// クライアントが直接作成するAPIは存在しない。受信者本人だけが
// 自分宛の通知を閲覧・削除できる。
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skillplus/backend/internal/model"
	"github.com/skillplus/backend/internal/repository"
)

// Service は通知のサービス層。
type Service struct {
	notificationRepo repository.NotificationRepository
	now              func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(notificationRepo repository.NotificationRepository) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		now:              time.Now,
	}
}

// Notify は指定ユーザー宛の通知を作成する。
// ID・タイムスタンプはサーバー側で採番する。
func (s *Service) Notify(ctx context.Context, recipientUserID, message string) error {
	notification := &model.Notification{
		ID:        uuid.NewString(),
		UserID:    recipientUserID,
		Message:   message,
		Timestamp: s.now().UTC(),
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("通知の作成に失敗しました: %w", err)
	}
	return nil
}

// List は操作ユーザー自身に宛てられた通知を新しい順で返す。
// 他人の通知を閲覧する手段は提供しない。
func (s *Service) List(ctx context.Context, acting *model.User) ([]*model.Notification, error) {
	notifications, err := s.notificationRepo.ListByUserID(ctx, acting.ID)
	if err != nil {
		return nil, fmt.Errorf("通知一覧の取得に失敗しました: %w", err)
	}
	return notifications, nil
}

// Delete は通知を削除する。受信者本人のみ削除できる。
// 存在確認を所有チェックより先に行うため、他人の通知IDを指定しても
// 存在有無が漏れることはない（存在しなければNotFound、存在すればForbidden）。
func (s *Service) Delete(ctx context.Context, notificationID string, acting *model.User) error {
	notification, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return fmt.Errorf("通知の取得に失敗しました: %w", err)
	}
	if notification == nil {
		return model.NewNotificationNotFoundError(notificationID)
	}

	if notification.UserID != acting.ID {
		return model.NewForbiddenError()
	}

	if err := s.notificationRepo.DeleteByID(ctx, notificationID); err != nil {
		return fmt.Errorf("通知の削除に失敗しました: %w", err)
	}
	return nil
}
