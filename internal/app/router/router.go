// Package router builds the gin engine and registers all routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	authhandler "auth_backend/internal/feature/auth/transport/handler"
	platformhandler "auth_backend/internal/platform/http/handler"
	"auth_backend/internal/platform/http/middleware"
)

func NewRouter(authHandler *authhandler.AuthHandler, health *platformhandler.HealthHandler, log logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)

	// 新規ユーザー登録
	r.POST("/register", authHandler.Register)
	// ログイン
	r.POST("/login", authHandler.Login)

	return r
}
