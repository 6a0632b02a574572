package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/skillplus/backend/internal/model"
)

// PostgresLearningPlanRepo はPostgreSQLを使用した学習プランリポジトリ。
type PostgresLearningPlanRepo struct {
	db *sql.DB
}

// NewPostgresLearningPlanRepo はPostgresLearningPlanRepoを生成する。
func NewPostgresLearningPlanRepo(db *sql.DB) *PostgresLearningPlanRepo {
	return &PostgresLearningPlanRepo{db: db}
}

const planColumns = `id, user_id, title, topics, resources, target_date, progress, created_at, updated_at`

// FindByID は指定IDの学習プランを取得する。見つからない場合はnilを返す。
func (r *PostgresLearningPlanRepo) FindByID(ctx context.Context, id string) (*model.LearningPlan, error) {
	plan := &model.LearningPlan{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM learning_plans WHERE id = $1`,
		id,
	).Scan(&plan.ID, &plan.UserID, &plan.Title, &plan.Topics, &plan.Resources,
		&plan.TargetDate, &plan.Progress, &plan.CreatedAt, &plan.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find learning plan by ID: %w", err)
	}

	return plan, nil
}

// Create は学習プランを作成する。
func (r *PostgresLearningPlanRepo) Create(ctx context.Context, plan *model.LearningPlan) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO learning_plans (id, user_id, title, topics, resources, target_date, progress, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		plan.ID, plan.UserID, plan.Title, plan.Topics, plan.Resources,
		plan.TargetDate, plan.Progress, plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert learning plan: %w", err)
	}
	return nil
}

// Update は学習プランを更新する。所有者と作成日時は変更しない。
func (r *PostgresLearningPlanRepo) Update(ctx context.Context, plan *model.LearningPlan) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE learning_plans
		 SET title = $2, topics = $3, resources = $4, target_date = $5, progress = $6, updated_at = $7
		 WHERE id = $1`,
		plan.ID, plan.Title, plan.Topics, plan.Resources,
		plan.TargetDate, plan.Progress, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update learning plan: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("learning plan not found: %s", plan.ID)
	}
	return nil
}

// DeleteByID は指定IDの学習プランを削除する。
func (r *PostgresLearningPlanRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM learning_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete learning plan: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("learning plan not found: %s", id)
	}
	return nil
}

// List は全学習プランを作成日時の降順で返す。
func (r *PostgresLearningPlanRepo) List(ctx context.Context) ([]*model.LearningPlan, error) {
	return r.list(ctx,
		`SELECT `+planColumns+` FROM learning_plans ORDER BY created_at DESC`)
}

// ListByUserID は指定ユーザーの学習プランを作成日時の降順で返す。
func (r *PostgresLearningPlanRepo) ListByUserID(ctx context.Context, userID string) ([]*model.LearningPlan, error) {
	return r.list(ctx,
		`SELECT `+planColumns+` FROM learning_plans WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *PostgresLearningPlanRepo) list(ctx context.Context, query string, args ...any) ([]*model.LearningPlan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list learning plans: %w", err)
	}
	defer rows.Close()

	var plans []*model.LearningPlan
	for rows.Next() {
		plan := &model.LearningPlan{}
		if err := rows.Scan(&plan.ID, &plan.UserID, &plan.Title, &plan.Topics, &plan.Resources,
			&plan.TargetDate, &plan.Progress, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan learning plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate learning plans: %w", err)
	}

	return plans, nil
}

// compile-time interface check
var _ LearningPlanRepository = (*PostgresLearningPlanRepo)(nil)
