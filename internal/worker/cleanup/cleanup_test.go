package cleanup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type mockPurger struct {
	deleteExpiredFn func(ctx context.Context, now time.Time) (int64, error)
	calls           int
	lastNow         time.Time
}

func (m *mockPurger) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.calls++
	m.lastNow = now
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, now)
	}
	return 0, nil
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func TestRun_DeletesExpiredStatuses(t *testing.T) {
	var buf bytes.Buffer
	purger := &mockPurger{
		deleteExpiredFn: func(ctx context.Context, now time.Time) (int64, error) {
			return 5, nil
		},
	}
	job := NewCleanupJob(purger, newTestLogger(&buf))
	fixed := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() がエラーを返した: %v", err)
	}

	if purger.calls != 1 {
		t.Fatalf("DeleteExpired の呼び出し回数 = %d, want 1", purger.calls)
	}
	if !purger.lastNow.Equal(fixed) {
		t.Errorf("基準時刻 = %v, want %v", purger.lastNow, fixed)
	}
}

func TestRun_LogsDeletedCount(t *testing.T) {
	var buf bytes.Buffer
	purger := &mockPurger{
		deleteExpiredFn: func(ctx context.Context, now time.Time) (int64, error) {
			return 3, nil
		},
	}
	job := NewCleanupJob(purger, newTestLogger(&buf))

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() がエラーを返した: %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("ログのJSONパースに失敗: %v", err)
	}
	if count, ok := entry["deleted_count"].(float64); !ok || count != 3 {
		t.Errorf("deleted_count = %v, want 3", entry["deleted_count"])
	}
}

func TestRun_Idempotent_NoRows(t *testing.T) {
	var buf bytes.Buffer
	job := NewCleanupJob(&mockPurger{}, newTestLogger(&buf))

	if err := job.Run(context.Background()); err != nil {
		t.Errorf("削除対象なしでエラーになった: %v", err)
	}
}

func TestRun_PropagatesError(t *testing.T) {
	var buf bytes.Buffer
	purger := &mockPurger{
		deleteExpiredFn: func(ctx context.Context, now time.Time) (int64, error) {
			return 0, errors.New("db down")
		},
	}
	job := NewCleanupJob(purger, newTestLogger(&buf))

	if err := job.Run(context.Background()); err == nil {
		t.Error("削除エラーが伝播しなかった")
	}
}

func TestRunPeriodically_StopsOnContextCancel(t *testing.T) {
	var buf bytes.Buffer
	job := NewCleanupJob(&mockPurger{}, newTestLogger(&buf))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.RunPeriodically(ctx, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("コンテキストキャンセル後に停止しなかった")
	}
}
