package model

import "time"

// Status は24時間で失効する一時ステータスを表す。
// ExpiresAtは作成時にサーバー側で設定される。
type Status struct {
	ID        string
	UserID    string
	Content   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired は指定時刻においてステータスが失効しているかを返す。
func (s *Status) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
