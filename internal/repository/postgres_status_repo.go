package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/skillplus/backend/internal/model"
)

// PostgresStatusRepo はPostgreSQLを使用した一時ステータスリポジトリ。
type PostgresStatusRepo struct {
	db *sql.DB
}

// NewPostgresStatusRepo はPostgresStatusRepoを生成する。
func NewPostgresStatusRepo(db *sql.DB) *PostgresStatusRepo {
	return &PostgresStatusRepo{db: db}
}

// Create はステータスを作成する。
func (r *PostgresStatusRepo) Create(ctx context.Context, status *model.Status) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO statuses (id, user_id, content, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		status.ID, status.UserID, status.Content, status.CreatedAt, status.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert status: %w", err)
	}
	return nil
}

// ListActive は失効していないステータスを作成日時の降順で返す。
func (r *PostgresStatusRepo) ListActive(ctx context.Context, now time.Time) ([]*model.Status, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, content, created_at, expires_at
		 FROM statuses WHERE expires_at > $1 ORDER BY created_at DESC`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	defer rows.Close()

	var statuses []*model.Status
	for rows.Next() {
		status := &model.Status{}
		if err := rows.Scan(&status.ID, &status.UserID, &status.Content, &status.CreatedAt, &status.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate statuses: %w", err)
	}

	return statuses, nil
}

// DeleteExpired は失効したステータスを削除し、削除件数を返す。
// 冪等: 削除対象がない場合でもエラーにならない。
func (r *PostgresStatusRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM statuses WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired statuses: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// compile-time interface check
var _ StatusRepository = (*PostgresStatusRepo)(nil)
