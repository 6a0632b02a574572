// Package status は一時ステータスのドメインロジックを提供する。
//
// ステータスは作成から一定時間（既定24時間）で失効する。一覧には
// 失効していないものだけが現れ、失効済みレコードは定期クリーンアップ
// ジョブが物理削除する。
package status

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

// DefaultTTL はステータスの既定の有効期間。
const DefaultTTL = 24 * time.Hour

// Service は一時ステータスのサービス層。
type Service struct {
	statusRepo repository.StatusRepository
	sanitizer  security.ContentSanitizerService
	ttl        time.Duration
	now        func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// ttlが0以下の場合はDefaultTTLを使用する。
func NewService(statusRepo repository.StatusRepository, sanitizer security.ContentSanitizerService, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		statusRepo: statusRepo,
		sanitizer:  sanitizer,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Create はステータスを作成する。失効時刻はサーバー側で設定し、
// クライアントから指定することはできない。
func (s *Service) Create(ctx context.Context, content string, acting *model.User) (*model.Status, error) {
	if strings.TrimSpace(content) == "" {
		return nil, model.NewEmptyContentError("ステータス本文")
	}

	now := s.now().UTC()
	status := &model.Status{
		ID:        uuid.NewString(),
		UserID:    acting.ID,
		Content:   s.sanitizer.Sanitize(content),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.statusRepo.Create(ctx, status); err != nil {
		return nil, fmt.Errorf("ステータスの作成に失敗しました: %w", err)
	}
	return status, nil
}

// ListActive は失効していないステータスを作成日時の降順で返す。
func (s *Service) ListActive(ctx context.Context) ([]*model.Status, error) {
	statuses, err := s.statusRepo.ListActive(ctx, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("ステータス一覧の取得に失敗しました: %w", err)
	}
	return statuses, nil
}
