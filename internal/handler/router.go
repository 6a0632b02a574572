package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skillplus/backend/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	PrincipalResolver middleware.PrincipalResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	StatusRecorder    middleware.StatusRecorder

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメイン
	UserService         UserServiceInterface
	PostService         PostServiceInterface
	CommentService      CommentServiceInterface
	NotificationService NotificationServiceInterface
	LearningPlanService LearningPlanServiceInterface
	StatusService       StatusServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → [Auth → RateLimit(General) → RateLimit(Write)]
//
// 認証ルート（/api/auth/*, /auth/google/*）とヘルスチェックは認証ミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusRecorder))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	userHandler := NewUserHandler(deps.UserService)
	postHandler := NewPostHandler(deps.PostService)
	commentHandler := NewCommentHandler(deps.CommentService)
	notificationHandler := NewNotificationHandler(deps.NotificationService)
	planHandler := NewLearningPlanHandler(deps.LearningPlanService)
	statusHandler := NewStatusHandler(deps.StatusService)

	// --- 認証不要のルート ---

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// ローカル認証
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Google OAuthフロー
	r.Route("/auth/google", func(r chi.Router) {
		r.Get("/login", authHandler.GoogleLogin)
		r.Get("/callback", authHandler.GoogleCallback)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier, deps.PrincipalResolver))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		write := deps.RateLimiter.WriteMiddleware()

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Get("/me", userHandler.Me)
			r.With(write).Put("/me", userHandler.UpdateMe)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Get("/posts", postHandler.ListUserPosts)
				r.Get("/learning-plans", planHandler.ListUserPlans)
			})
		})

		// 投稿管理
		r.Route("/api/posts", func(r chi.Router) {
			r.Get("/", postHandler.ListPosts)
			r.With(write).Post("/", postHandler.CreatePost)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", postHandler.GetPost)
				r.With(write).Put("/", postHandler.UpdatePost)
				r.With(write).Delete("/", postHandler.DeletePost)

				// コメント
				r.Get("/comments", commentHandler.ListComments)
				r.With(write).Post("/comments", commentHandler.CreateComment)
			})
		})

		// コメント管理
		r.Route("/api/comments/{id}", func(r chi.Router) {
			r.With(write).Put("/", commentHandler.UpdateComment)
			r.With(write).Delete("/", commentHandler.DeleteComment)
		})

		// 通知管理
		r.Route("/api/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.ListNotifications)
			r.With(write).Delete("/{id}", notificationHandler.DeleteNotification)
		})

		// 学習プラン管理
		r.Route("/api/learning-plans", func(r chi.Router) {
			r.Get("/", planHandler.ListPlans)
			r.With(write).Post("/", planHandler.CreatePlan)

			r.Route("/{id}", func(r chi.Router) {
				r.With(write).Put("/", planHandler.UpdatePlan)
				r.With(write).Delete("/", planHandler.DeletePlan)
			})
		})

		// 一時ステータス管理
		r.Route("/api/statuses", func(r chi.Router) {
			r.Get("/", statusHandler.ListStatuses)
			r.With(write).Post("/", statusHandler.CreateStatus)
		})
	})

	return r
}
