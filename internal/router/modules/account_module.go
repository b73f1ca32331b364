package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"go-commerce-api/internal/container"
	handlers "go-commerce-api/internal/interface/http"
	"go-commerce-api/internal/interface/middleware"
	"go-commerce-api/pkg/helpers"
)

// AccountModule wires account HTTP handlers and JWT middleware into routes.
// Public: POST /api/users/register, POST /api/users/login,
// POST /api/users/forgot-password, POST /api/users/reset-password
// Protected: GET /api/users/profile, PUT /api/users/profile,
// PUT /api/users/change-password
type AccountModule struct {
	Handler *handlers.AccountHandler
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	forgotLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath())
	resetLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/users/register", registerLimiter, m.Handler.Register)
	rg.POST("/users/login", loginLimiter, m.Handler.Login)
	rg.POST("/users/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	rg.POST("/users/reset-password", resetLimiter, m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("/users/profile", m.Handler.GetProfile)
		auth.PUT("/users/profile", m.Handler.UpdateProfile)
		auth.PUT("/users/change-password", m.Handler.ChangePassword)
	}
}
