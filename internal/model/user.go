// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限ロールを表す。
type Role string

const (
	// RoleUser は一般ユーザーのロール。新規ユーザーには必ず付与される。
	RoleUser Role = "USER"
)

// User はサービス利用ユーザーを表す。
// PasswordHashが空文字列のユーザーはソーシャルログイン専用アカウントであり、
// パスワード認証には決して成功しない。
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Roles        []Role
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsFederatedOnly はソーシャルログイン専用アカウントかどうかを返す。
func (u *User) IsFederatedOnly() bool {
	return u.PasswordHash == ""
}

// HasRole は指定ロールを保持しているかを返す。
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
