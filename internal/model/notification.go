package model

import "time"

// Notification はドメインイベントの副作用として生成される通知を表す。
// クライアントが直接作成することはない。UserIDは受信者を指す。
type Notification struct {
	ID        string
	UserID    string
	Message   string
	Timestamp time.Time
}
