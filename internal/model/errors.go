// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, domain, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidToken             = "INVALID_TOKEN"
	ErrCodeExpiredToken             = "EXPIRED_TOKEN"
	ErrCodeMissingIdentityAttribute = "MISSING_IDENTITY_ATTRIBUTE"
	ErrCodeInvalidCredentials       = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken               = "EMAIL_TAKEN"
	ErrCodeForbidden                = "FORBIDDEN"
	ErrCodeUserNotFound             = "USER_NOT_FOUND"
	ErrCodePostNotFound             = "POST_NOT_FOUND"
	ErrCodeCommentNotFound          = "COMMENT_NOT_FOUND"
	ErrCodePlanNotFound             = "PLAN_NOT_FOUND"
	ErrCodeNotificationNotFound     = "NOTIFICATION_NOT_FOUND"
	ErrCodeEmptyContent             = "EMPTY_CONTENT"
)

// NewInvalidTokenError は署名不一致などトークンが無効な場合のエラーを生成する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "トークンが無効です。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewExpiredTokenError はトークンの有効期限切れエラーを生成する。
func NewExpiredTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeExpiredToken,
		Message:  "トークンの有効期限が切れています。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewMissingIdentityAttributeError はOAuthプロバイダーが必須属性を
// 返さなかった場合のエラーを生成する。
func NewMissingIdentityAttributeError(attribute string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingIdentityAttribute,
		Message:  fmt.Sprintf("認証プロバイダーから必須属性が取得できませんでした: %s", attribute),
		Category: "auth",
		Action:   "別のアカウントでログインするか、プロバイダーの設定を確認してください。",
	}
}

// NewInvalidCredentialsError はメールアドレスまたはパスワードが
// 一致しない場合のエラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認してください。",
	}
}

// NewEmailTakenError はメールアドレスが登録済みの場合のエラーを生成する。
func NewEmailTakenError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewForbiddenError は認可チェックに失敗した場合のエラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "自分が所有するリソースに対してのみ操作できます。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewPostNotFoundError は投稿が見つからない場合のエラーを生成する。
func NewPostNotFoundError(postID string) *APIError {
	return &APIError{
		Code:     ErrCodePostNotFound,
		Message:  fmt.Sprintf("指定された投稿が見つかりません: %s", postID),
		Category: "domain",
		Action:   "投稿IDを確認してください。",
	}
}

// NewCommentNotFoundError はコメントが見つからない場合のエラーを生成する。
func NewCommentNotFoundError(commentID string) *APIError {
	return &APIError{
		Code:     ErrCodeCommentNotFound,
		Message:  fmt.Sprintf("指定されたコメントが見つかりません: %s", commentID),
		Category: "domain",
		Action:   "コメントIDを確認してください。",
	}
}

// NewPlanNotFoundError は学習プランが見つからない場合のエラーを生成する。
func NewPlanNotFoundError(planID string) *APIError {
	return &APIError{
		Code:     ErrCodePlanNotFound,
		Message:  fmt.Sprintf("指定された学習プランが見つかりません: %s", planID),
		Category: "domain",
		Action:   "学習プランIDを確認してください。",
	}
}

// NewNotificationNotFoundError は通知が見つからない場合のエラーを生成する。
func NewNotificationNotFoundError(notificationID string) *APIError {
	return &APIError{
		Code:     ErrCodeNotificationNotFound,
		Message:  fmt.Sprintf("指定された通知が見つかりません: %s", notificationID),
		Category: "domain",
		Action:   "通知IDを確認してください。",
	}
}

// NewEmptyContentError は本文が空の場合のエラーを生成する。
func NewEmptyContentError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeEmptyContent,
		Message:  fmt.Sprintf("%sが空です。", field),
		Category: "validation",
		Action:   "内容を入力してください。",
	}
}
