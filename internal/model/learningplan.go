package model

import "time"

// LearningPlan は学習プランを表す。
type LearningPlan struct {
	ID         string
	UserID     string
	Title      string
	Topics     string
	Resources  string
	TargetDate time.Time
	Progress   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LearningPlanResponse は学習プランの一覧表示用レスポンス。
// 作成者の表示名とプロフィール画像を結合した形で返す。
type LearningPlanResponse struct {
	ID           string
	Title        string
	Topics       string
	Resources    string
	TargetDate   time.Time
	Progress     int
	Username     string
	ProfileImage string
}
