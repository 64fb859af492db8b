package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"parking_control/internal/feature/auth/domain/entity"
	authhandler "parking_control/internal/feature/auth/transport/handler"
	parkingspothandler "parking_control/internal/feature/parkingspot/transport/handler"
	platformhandler "parking_control/internal/platform/http/handler"
	jwtmw "parking_control/internal/platform/jwt"
	"parking_control/internal/shared/ratelimiter"
)

// corsMaxAge はプリフライト結果をブラウザにキャッシュさせる時間です。
const corsMaxAge = 3600 * time.Second

func NewRouter(
	health *platformhandler.HealthHandler,
	authHandler *authhandler.AuthHandler,
	parkingSpot *parkingspothandler.ParkingSpotHandler,
	revocations jwtmw.RevocationChecker,
	authLimiter *ratelimiter.RateLimiter,
) *gin.Engine {
	r := gin.Default()

	// 任意のオリジンからのアクセスを許可
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          corsMaxAge,
	}))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)
	// 認証エンドポイントはクライアントIPごとにレート制限
	public := r.Group("/")
	if authLimiter != nil {
		public.Use(authLimiter.Middleware())
	}
	{
		// 新規ユーザー登録
		public.POST("/signup", authHandler.Signup)
		// ログイン（JWT 発行）
		public.POST("/login", authHandler.Login)
	}

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(revocations))
	{
		// ログアウト（トークン無効化）
		auth.POST("/logout", authHandler.Logout)
	}

	// 駐車スペース
	// 参照は ROLE_ADMIN / ROLE_USER、更新系は ROLE_ADMIN のみ
	adminOnly := jwtmw.RequireRoles(entity.RoleAdmin)
	anyRole := jwtmw.RequireRoles(entity.RoleAdmin, entity.RoleUser)
	spots := auth.Group("/parking-spot")
	{
		spots.POST("", adminOnly, parkingSpot.Create)
		spots.GET("", anyRole, parkingSpot.List)
		spots.GET("/:id", anyRole, parkingSpot.Get)
		spots.PUT("/:id", adminOnly, parkingSpot.Update)
		spots.DELETE("/:id", adminOnly, parkingSpot.Delete)
	}

	return r
}
