// Package cleanup は失効ステータスの自動削除ジョブを提供する。
// 有効期限（デフォルト24時間）を過ぎたステータスを定期バッチで
// 物理削除する。一覧APIは失効分を元々返さないため、このジョブは
// ストレージの掃除だけを担う。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// StatusPurger は失効ステータスの削除インターフェース。
type StatusPurger interface {
	// DeleteExpired はnow時点で失効しているステータスを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// CleanupJob は失効ステータスの自動削除ジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	purger StatusPurger
	logger *slog.Logger
	now    func() time.Time
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(purger StatusPurger, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		purger: purger,
		logger: logger,
		now:    time.Now,
	}
}

// Run は失効したステータスを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.purger.DeleteExpired(ctx, j.now().UTC())
	if err != nil {
		j.logger.Error("ステータスクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("ステータスクリーンアップの実行に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("ステータスクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// RunPeriodically はintervalごとにRunを実行し続ける。
// ctxのキャンセルで停止する。個々の実行の失敗はログに残して継続する。
func (j *CleanupJob) RunPeriodically(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("ステータスクリーンアップジョブを停止します")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil && ctx.Err() == nil {
				j.logger.Error("定期クリーンアップの実行に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
