package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/mymetas/internal/metrics"
	"github.com/hitoshi/mymetas/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	MetricsRecorder   middleware.HTTPMetricsRecorder
	MetricsGatherer   prometheus.Gatherer

	// 認証
	AuthService   AuthServiceInterface
	LoginRecorder LoginMetricsRecorder

	// ユーザー
	UserService    UserServiceInterface
	AvatarUploader AvatarUploader

	// メタとステップ
	MetaService MetaServiceInterface
	StepService StepServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics → [Auth → RateLimit(General)]
//
// 登録（POST /user）とログイン（POST /session）は認証の外に置き、
// 接続元IP単位のレート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.LoginRecorder)
	userHandler := NewUserHandler(deps.UserService, deps.AvatarUploader)
	metaHandler := NewMetaHandler(deps.MetaService)
	stepHandler := NewStepHandler(deps.StepService)

	// --- 認証不要のルート ---

	r.Get("/health", handleHealth)

	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// 登録・ログインは認証前のため接続元IP単位のレート制限を適用
	authLimit := func(next http.Handler) http.Handler { return next }
	if deps.RateLimiter != nil {
		authLimit = deps.RateLimiter.AuthMiddleware()
	}
	r.With(authLimit).Post("/user", userHandler.Register)
	r.With(authLimit).Post("/session", authHandler.Login)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		// プロフィール管理
		r.Route("/user", func(r chi.Router) {
			r.Get("/", userHandler.Get)
			r.Put("/", userHandler.Update)
			r.Delete("/", userHandler.Withdraw)
			r.Put("/avatar", userHandler.UploadAvatar)
		})

		// メタ管理
		r.Route("/metas", func(r chi.Router) {
			r.Get("/", metaHandler.List)
			r.Post("/", metaHandler.Create)

			r.Route("/{meta_id}", func(r chi.Router) {
				r.Get("/", metaHandler.Get)
				r.Put("/", metaHandler.Update)
				r.Delete("/", metaHandler.Delete)

				// ステップ管理（親メタ経由でのみ到達可能）
				r.Route("/steps", func(r chi.Router) {
					r.Post("/", stepHandler.Create)

					r.Route("/{step_id}", func(r chi.Router) {
						r.Put("/", stepHandler.Update)
						r.Delete("/", stepHandler.Delete)
					})
				})
			})
		})
	})

	return r
}

// handleHealth はヘルスチェックエンドポイント。
// GET /health
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
