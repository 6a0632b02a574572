// Package auth は認証フロー（ローカル・ソーシャル）とIDトークンの発行・検証を提供する。
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skillplus/backend/internal/model"
)

const tokenIssuer = "skillplus"

// TokenService は署名付きIDトークンの発行と検証を行う。
// 状態を持たないため、複数のリクエスト処理ゴルーチンから同時に呼び出せる。
// 署名シークレットは起動時に一度だけ設定され、以後変更されない。
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService はTokenServiceを生成する。
// ttlは発行するトークンの有効期間。
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue は指定メールアドレスをsubjectとする署名付きトークンを発行する。
func (s *TokenService) Issue(subjectEmail string) (string, error) {
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   subjectEmail,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、subjectのメールアドレスを返す。
// 署名不一致はInvalidToken、期限切れはExpiredTokenのAPIErrorを返す。
func (s *TokenService) Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, model.NewInvalidTokenError()
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", model.NewExpiredTokenError()
		}
		return "", model.NewInvalidTokenError()
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", model.NewInvalidTokenError()
	}
	if claims.Issuer != tokenIssuer || claims.Subject == "" {
		return "", model.NewInvalidTokenError()
	}

	return claims.Subject, nil
}
