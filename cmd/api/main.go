package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yeghor/habit-tracker-go/internal/api/handlers"
	"github.com/yeghor/habit-tracker-go/internal/api/middleware"
	"github.com/yeghor/habit-tracker-go/internal/api/routes"
	"github.com/yeghor/habit-tracker-go/internal/domain/habits"
	"github.com/yeghor/habit-tracker-go/internal/domain/progression"
	"github.com/yeghor/habit-tracker-go/internal/domain/token"
	"github.com/yeghor/habit-tracker-go/internal/domain/user"
	"github.com/yeghor/habit-tracker-go/internal/infrastructure/cache"
	"github.com/yeghor/habit-tracker-go/internal/infrastructure/persistence/postgres/connection"
	"github.com/yeghor/habit-tracker-go/internal/infrastructure/persistence/postgres/migrations"
	"github.com/yeghor/habit-tracker-go/internal/infrastructure/scheduler"
	"github.com/yeghor/habit-tracker-go/pkg/config"
	"github.com/yeghor/habit-tracker-go/pkg/logger"
	"github.com/yeghor/habit-tracker-go/pkg/security/auth"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	// Set up Gin
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(middleware.NewMetricsMiddleware().CollectMetrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORS.AllowedOrigins,
		AllowMethods:  cfg.CORS.AllowedMethods,
		AllowHeaders:  cfg.CORS.AllowedHeaders,
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Encoding",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Connect to database
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run database migrations
	if err := migrations.Migrate(db); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Rate limiter for the credential endpoints
	rateLimiter := auth.NewRedisRateLimiter(redisClient, 1*time.Minute, 20)

	// XP curve shared by every consumer of progression math
	curve := progression.Curve{
		BaseXP:     cfg.Progression.BaseLevelXP,
		GrowthRate: cfg.Progression.GrowthRate,
	}

	// Initialize repositories
	userRepo := user.NewRepository(db)
	habitsRepo := habits.NewRepository(db)
	tokenRepo := token.NewRepository(db)

	// Initialize services
	userService := user.NewService(userRepo, curve, log.Logger)
	habitsService := habits.NewService(habitsRepo, curve, cfg.Habits, log.Logger)
	tokenService := token.NewService(tokenRepo, cfg.Auth, log.Logger)

	// Start the periodic reset scheduler
	resetScheduler := scheduler.NewScheduler(habitsService, tokenService, cfg.Scheduler, log)
	resetScheduler.Start()
	defer resetScheduler.Stop()
	log.Info("Habit reset scheduler started")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokenService)
	habitsHandler := handlers.NewHabitsHandler(habitsService)

	// Register routes
	authRoutes := routes.NewAuthRoutes(authHandler, cfg.Auth.JWTSecret, rateLimiter)
	authRoutes.RegisterRoutes(router)

	habitsRoutes := routes.NewHabitsRoutes(habitsHandler, cfg.Auth.JWTSecret, rateLimiter)
	habitsRoutes.RegisterRoutes(router)

	routes.SetupHealthRoutes(router)

	// Start the server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		log.Info("Starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
