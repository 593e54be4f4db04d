package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"gymdesk/internal/config"
	"gymdesk/internal/handlers"
	"gymdesk/internal/middleware"
	"gymdesk/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logger.Sync()

	db, err := services.InitDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := services.AutoMigrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	// Redis is optional; without it the dashboard is computed per request.
	var cache *services.RedisCache
	if cfg.RedisURL != "" {
		cache, err = services.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.JSONErrorHandler
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	authHandler := handlers.NewAuthHandler(db, cfg.AuthConfig)
	memberHandler := handlers.NewMemberHandler(db, cache)
	trainerHandler := handlers.NewTrainerHandler(db)
	trainerPaymentHandler := handlers.NewTrainerPaymentHandler(db)
	gymHandler := handlers.NewGymHandler(db)
	planHandler := handlers.NewPlanHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db, cache)
	dashboardHandler := handlers.NewDashboardHandler(db, cache)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := api.Group("", middleware.RequireAuth(db, cfg.JWTSecret))
	protected.GET("/auth/me", authHandler.Me)

	protected.GET("/members", memberHandler.List)
	protected.POST("/members", memberHandler.Create)
	protected.GET("/members/search", memberHandler.Search)
	protected.GET("/members/:id", memberHandler.Get)
	protected.PUT("/members/:id", memberHandler.Update)
	protected.PATCH("/members/:id", memberHandler.Update)
	protected.DELETE("/members/:id", memberHandler.Delete)

	protected.GET("/trainers", trainerHandler.List)
	protected.POST("/trainers", trainerHandler.Create)
	protected.GET("/trainers/:id", trainerHandler.Get)
	protected.PUT("/trainers/:id", trainerHandler.Update)
	protected.PATCH("/trainers/:id", trainerHandler.Update)
	protected.DELETE("/trainers/:id", trainerHandler.Delete)

	protected.GET("/trainer-payments", trainerPaymentHandler.List)
	protected.POST("/trainer-payments", trainerPaymentHandler.Create)
	protected.GET("/trainer-payments/:id", trainerPaymentHandler.Get)
	protected.PUT("/trainer-payments/:id", trainerPaymentHandler.Update)
	protected.PATCH("/trainer-payments/:id", trainerPaymentHandler.Update)
	protected.DELETE("/trainer-payments/:id", trainerPaymentHandler.Delete)

	protected.GET("/gyms", gymHandler.List)
	protected.POST("/gyms", gymHandler.Create)
	protected.GET("/gyms/:id", gymHandler.Get)
	protected.PUT("/gyms/:id", gymHandler.Update)
	protected.PATCH("/gyms/:id", gymHandler.Update)
	protected.DELETE("/gyms/:id", gymHandler.Delete)

	protected.GET("/plans", planHandler.List)
	protected.GET("/plans/:id", planHandler.Get)

	protected.GET("/payments", paymentHandler.List)
	protected.POST("/payments", paymentHandler.Create)
	protected.GET("/payments/member_payments", paymentHandler.MemberPayments)
	protected.GET("/payments/outstanding_dues", paymentHandler.OutstandingDues)
	protected.GET("/payments/:id", paymentHandler.Get)
	protected.PUT("/payments/:id", paymentHandler.Update)
	protected.PATCH("/payments/:id", paymentHandler.Update)
	protected.DELETE("/payments/:id", paymentHandler.Delete)

	protected.GET("/dashboard/stats", dashboardHandler.Stats)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
