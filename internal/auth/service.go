package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/skillplus/backend/internal/model"
	"github.com/skillplus/backend/internal/repository"
)

// OAuthUserInfo はOAuthプロバイダーから取得したユーザー情報を表す。
type OAuthUserInfo struct {
	Email   string
	Name    string
	Picture string
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
// 将来的に複数IdP（Google, GitHub等）に対応するための抽象化。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、ユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// LoginRecorder はログイン種別ごとの件数を記録するインターフェース。
// metricsパッケージのCollectorの部分集合として定義する。
type LoginRecorder interface {
	RecordLogin(kind string)
}

// Service は認証に関するビジネスロジックを提供する。
// ローカル認証とソーシャル認証を、同一のIDトークン契約に統合する。
type Service struct {
	oauth    OAuthProvider
	userRepo repository.UserRepository
	tokens   *TokenService
	recorder LoginRecorder
}

// NewService はServiceを生成する。
// recorderはnilでもよい（その場合メトリクスは記録されない）。
func NewService(
	oauth OAuthProvider,
	userRepo repository.UserRepository,
	tokens *TokenService,
	recorder LoginRecorder,
) *Service {
	return &Service{
		oauth:    oauth,
		userRepo: userRepo,
		tokens:   tokens,
		recorder: recorder,
	}
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback はOAuthコールバックを処理し、IDトークンを発行する。
// プロバイダーのメールアドレスをユーザー突き合わせの唯一のキーとして使い、
// 未登録の場合はソーシャルログイン専用ユーザー（パスワードハッシュ空、
// ロールUSER）を自動作成する。同一メールアドレスでの再ログインは常に
// 同じユーザーレコードに解決されるため、重複ユーザーは作成されない。
// emailが取得できない場合はユーザーを一切作成せずに失敗する。
func (s *Service) HandleCallback(ctx context.Context, code string) (string, error) {
	userInfo, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	if userInfo.Email == "" {
		return "", model.NewMissingIdentityAttributeError("email")
	}

	user, err := s.userRepo.FindByEmail(ctx, userInfo.Email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil {
		now := time.Now()
		user = &model.User{
			ID:           uuid.New().String(),
			Email:        userInfo.Email,
			Name:         userInfo.Name,
			PasswordHash: "", // ソーシャルログイン専用
			Roles:        []model.Role{model.RoleUser},
			ProfileImage: userInfo.Picture,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", fmt.Errorf("failed to create user: %w", err)
		}
		slog.Info("new federated user created",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email),
		)
	} else {
		slog.Info("existing user logged in via oauth",
			slog.String("user_id", user.ID),
		)
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.recordLogin("federated")
	return token, nil
}

// Register はローカルユーザーを登録し、IDトークンを発行する。
// メールアドレスが既に使われている場合はEmailTakenエラーを返す。
func (s *Service) Register(ctx context.Context, email, name, password string) (*model.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}
	if existing != nil {
		return nil, "", model.NewEmailTakenError(email)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Roles:        []model.Role{model.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("new local user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	s.recordLogin("register")
	return user, token, nil
}

// Login はメールアドレスとパスワードでローカル認証し、IDトークンを発行する。
// ユーザーが存在しない場合もパスワード不一致の場合も同じ
// InvalidCredentialsエラーを返す。ソーシャルログイン専用アカウント
// （パスワードハッシュ空）はパスワード認証に決して成功しない。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !VerifyPassword(user.PasswordHash, password) {
		return nil, "", model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.recordLogin("local")
	return user, token, nil
}

func (s *Service) recordLogin(kind string) {
	if s.recorder != nil {
		s.recorder.RecordLogin(kind)
	}
}
