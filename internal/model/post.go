package model

import "time"

// Post はユーザーの投稿を表す。
// 所有者（UserID）は作成時にサーバー側で確定し、以後変更されない。
type Post struct {
	ID        string
	UserID    string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment は投稿に対するコメントを表す。
// UserID（コメント主）とPostIDはサーバー側でのみ設定される。
// クライアントから送られた値は信用しない。
type Comment struct {
	ID        string
	PostID    string
	UserID    string
	Content   string
	CreatedAt time.Time
}
