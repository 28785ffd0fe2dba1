package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/ravenhq/user-service/docs"
	"github.com/ravenhq/user-service/internal/api/handler"
	"github.com/ravenhq/user-service/internal/api/middleware"
	"github.com/ravenhq/user-service/internal/core/service"
	"github.com/ravenhq/user-service/internal/core/token"
	mongodb "github.com/ravenhq/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/ravenhq/user-service/internal/infrastructure/db/redis"
	"github.com/ravenhq/user-service/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, tokens *token.Service, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("user_service"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	limiter := redisdb.NewLoginLimiter(rdb, 0, 0)
	authService := service.NewAuthService(userRepo, tokens, limiter, log)
	userService := service.NewUserService(userRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	authGuard := middleware.Auth(tokens)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)

	// --- User CRUD (bearer access token required) ---
	user := e.Group("/user", authGuard)
	user.GET("", userHandler.List)
	user.POST("", userHandler.Create)
	user.GET("/:id", userHandler.Detail)
	user.PUT("/:id", userHandler.Update)
	user.DELETE("/:id", userHandler.Delete)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
