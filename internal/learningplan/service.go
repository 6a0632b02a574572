// Package learningplan は学習プランのドメインロジックを提供する。
//
// 学習プランは全ユーザーに公開される。一覧レスポンスには作成者の
// 表示名とプロフィール画像を結合して返す。更新・削除は作成者のみ行える。
package learningplan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillplus/backend/internal/model"
	"github.com/skillplus/backend/internal/repository"
)

// 作成者が退会済みなどで解決できない場合の表示名。
const anonymousUsername = "Anonymous"

// Service は学習プランのサービス層。
type Service struct {
	planRepo repository.LearningPlanRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(planRepo repository.LearningPlanRepository, userRepo repository.UserRepository) *Service {
	return &Service{
		planRepo: planRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// PlanInput は学習プランの作成・更新入力。
type PlanInput struct {
	Title      string
	Topics     string
	Resources  string
	TargetDate time.Time
	Progress   int
}

// Create は学習プランを作成する。ID・所有者・作成日時はサーバー側で確定する。
func (s *Service) Create(ctx context.Context, input PlanInput, acting *model.User) (*model.LearningPlan, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, model.NewEmptyContentError("タイトル")
	}

	now := s.now().UTC()
	plan := &model.LearningPlan{
		ID:         uuid.NewString(),
		UserID:     acting.ID,
		Title:      strings.TrimSpace(input.Title),
		Topics:     input.Topics,
		Resources:  input.Resources,
		TargetDate: input.TargetDate,
		Progress:   clampProgress(input.Progress),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("学習プランの作成に失敗しました: %w", err)
	}
	return plan, nil
}

// List は全学習プランを作成者情報付きで作成日時の降順で返す。
// 作成者が解決できないプランは表示名をAnonymousにフォールバックする。
func (s *Service) List(ctx context.Context) ([]*model.LearningPlanResponse, error) {
	plans, err := s.planRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("学習プラン一覧の取得に失敗しました: %w", err)
	}
	return s.toResponses(ctx, plans)
}

// ListByUser は指定ユーザーの学習プランを作成者情報付きで返す。
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*model.LearningPlanResponse, error) {
	plans, err := s.planRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("学習プラン一覧の取得に失敗しました: %w", err)
	}
	return s.toResponses(ctx, plans)
}

// Update は学習プランを更新する。作成者のみ更新できる。
// 存在確認を所有チェックより先に行う。
func (s *Service) Update(ctx context.Context, planID string, input PlanInput, acting *model.User) (*model.LearningPlan, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, model.NewEmptyContentError("タイトル")
	}

	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("学習プランの取得に失敗しました: %w", err)
	}
	if plan == nil {
		return nil, model.NewPlanNotFoundError(planID)
	}

	if plan.UserID != acting.ID {
		return nil, model.NewForbiddenError()
	}

	plan.Title = strings.TrimSpace(input.Title)
	plan.Topics = input.Topics
	plan.Resources = input.Resources
	plan.TargetDate = input.TargetDate
	plan.Progress = clampProgress(input.Progress)
	plan.UpdatedAt = s.now().UTC()

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("学習プランの更新に失敗しました: %w", err)
	}
	return plan, nil
}

// Delete は学習プランを削除する。作成者のみ削除できる。
// 存在確認を所有チェックより先に行う。
func (s *Service) Delete(ctx context.Context, planID string, acting *model.User) error {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("学習プランの取得に失敗しました: %w", err)
	}
	if plan == nil {
		return model.NewPlanNotFoundError(planID)
	}

	if plan.UserID != acting.ID {
		return model.NewForbiddenError()
	}

	if err := s.planRepo.DeleteByID(ctx, planID); err != nil {
		return fmt.Errorf("学習プランの削除に失敗しました: %w", err)
	}
	return nil
}

// toResponses は学習プランに作成者の表示名とプロフィール画像を結合する。
// 同一作成者のユーザー解決は1回にまとめる。
func (s *Service) toResponses(ctx context.Context, plans []*model.LearningPlan) ([]*model.LearningPlanResponse, error) {
	authors := make(map[string]*model.User)
	responses := make([]*model.LearningPlanResponse, len(plans))

	for i, plan := range plans {
		author, ok := authors[plan.UserID]
		if !ok {
			found, err := s.userRepo.FindByID(ctx, plan.UserID)
			if err != nil {
				return nil, fmt.Errorf("作成者の取得に失敗しました: %w", err)
			}
			author = found
			authors[plan.UserID] = author
		}

		resp := &model.LearningPlanResponse{
			ID:         plan.ID,
			Title:      plan.Title,
			Topics:     plan.Topics,
			Resources:  plan.Resources,
			TargetDate: plan.TargetDate,
			Progress:   plan.Progress,
			Username:   anonymousUsername,
		}
		if author != nil {
			resp.Username = author.Name
			resp.ProfileImage = author.ProfileImage
		}
		responses[i] = resp
	}

	return responses, nil
}

// clampProgress は進捗率を0〜100の範囲に収める。
func clampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
