package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-agent/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	taskH *TaskHandler,
	chatH *ChatHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)
	auth.GET("/me", JWTAuthMiddleware(jwtSvc), authH.Me)

	tasks := api.Group("/tasks", JWTAuthMiddleware(jwtSvc))
	tasks.GET("", taskH.ListTasks)
	tasks.POST("", taskH.CreateTask)
	tasks.GET("/:id", taskH.GetTask)
	tasks.PUT("/:id", taskH.UpdateTask)
	tasks.DELETE("/:id", taskH.DeleteTask)
	tasks.PATCH("/:id/complete", taskH.ToggleTask)

	api.POST("/chat", JWTAuthMiddleware(jwtSvc), chatH.Chat)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
