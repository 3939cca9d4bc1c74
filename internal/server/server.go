// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"darkbin/internal/backup"
	"darkbin/internal/cache"
	"darkbin/internal/config"
	"darkbin/internal/database"
	"darkbin/internal/featureflags"
	"darkbin/internal/middleware"
	"darkbin/internal/models"
	"darkbin/internal/repository"
	"darkbin/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	userRepo       repository.UserRepository
	pasteRepo      repository.PasteRepository
	commentRepo    repository.CommentRepository
	featureFlags   *featureflags.Manager
	pasteService   *service.PasteService
	commentService *service.CommentService
	authService    *service.AuthService
	userService    *service.UserService
	exporter       *backup.Exporter
}

// PasteRepo exposes the paste repository so the entry point can wire the
// snapshot exporter against the same storage layer.
func (s *Server) PasteRepo() repository.PasteRepository {
	return s.pasteRepo
}

// SetExporter wires the snapshot exporter used by the manual backup endpoint.
func (s *Server) SetExporter(e *backup.Exporter) {
	s.exporter = e
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	pasteRepo := repository.NewPasteRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	prom := middleware.InitMetrics("darkbin-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		pasteRepo:      pasteRepo,
		commentRepo:    commentRepo,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}
	server.pasteService = service.NewPasteService(pasteRepo, userRepo)
	server.commentService = service.NewCommentService(commentRepo)
	server.authService = service.NewAuthService(userRepo)
	server.userService = service.NewUserService(userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Darkbin Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/2fa/enable", s.AuthRequired(), s.EnableSecondFactor)

	// Paste routes. The whole surface is open — anonymous pastes, likes,
	// deletes, and body-role pins are part of the product; tokens only refine
	// attribution and pin authorization when present.
	pastes := api.Group("/pastes")
	pastes.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_paste"), s.OptionalAuth(), s.CreatePaste)
	pastes.Get("/", s.GetPastes)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	pastes.Post("/:id/like", middleware.RateLimit(
		s.redis, 30, time.Minute, "toggle_like"), s.OptionalAuth(), s.ToggleLike)
	pastes.Post("/:id/pin", s.OptionalAuth(), s.SetPinned)
	pastes.Get("/:id/comments", s.GetComments)
	pastes.Post("/:id/comments", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_comment"), s.CreateComment)
	pastes.Delete("/:id", s.OptionalAuth(), s.DeletePaste)
	pastes.Get("/:id", s.GetPaste)

	// Comment moderation
	api.Delete("/comments/:commentId", s.AuthRequired(), s.RoleRequired(models.RoleManager), s.DeleteComment)

	// User routes
	users := api.Group("/users")
	users.Get("/", s.GetUsers)
	users.Get("/me", s.AuthRequired(), s.GetMe)
	users.Put("/me/profile", s.AuthRequired(), s.UpdateMyProfile)
	users.Get("/:id/profile", s.GetUserProfile)

	// Feature flag snapshot, evaluated per user when a token is presented so
	// percentage rollouts resolve to the caller's bucket
	api.Get("/flags", s.OptionalAuth(), s.GetFlags)

	// Operational routes
	api.Post("/backup/pastes", s.AuthRequired(), s.RoleRequired(models.RoleStaff), s.TriggerBackup)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The cache is optional; readiness only requires the database.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. On success the user ID
// and role claims land in c.Locals("userID") / c.Locals("userRole").
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := s.authenticate(c); err != nil {
			return models.RespondWithError(c, err)
		}
		return c.Next()
	}
}

// OptionalAuth authenticates when a bearer token is presented and lets
// anonymous requests through. A presented-but-invalid token is still
// rejected; downgrading it silently to anonymous would mask client bugs.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}
		if err := s.authenticate(c); err != nil {
			return models.RespondWithError(c, err)
		}
		return c.Next()
	}
}

// authenticate validates the bearer token and stores the subject and role
// claims in request locals.
func (s *Server) authenticate(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	tokenString := ""
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		return models.NewUnauthorizedError("Authorization required")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.NewUnauthorizedError("Invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "darkbin-api" {
		return models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "darkbin-client" {
		return models.NewUnauthorizedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.NewUnauthorizedError("Invalid subject claim")
	}

	c.Locals("userID", sub)
	if role, ok := claims["role"].(string); ok {
		c.Locals("userRole", role)
	}
	// Sync to UserContext for logging and downstream services
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, sub)
	c.SetUserContext(ctx)

	return nil
}

// RoleRequired returns middleware that rejects callers below the minimum
// role. The role is re-read from the database, not trusted from the token,
// so demotions take effect immediately. Must be placed after AuthRequired.
func (s *Server) RoleRequired(min models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userID").(string)
		if userID == "" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Authorization required"))
		}

		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, err)
		}
		if user.Role.Priority() < min.Priority() {
			return models.RespondWithError(c,
				models.NewForbiddenError("Insufficient role"))
		}
		c.Locals("userRole", string(user.Role))
		return c.Next()
	}
}

// requesterRole resolves the caller's role for pin authorization. Logged-in
// callers get their stored role and never the body's, so a stale token cannot
// escalate past a demotion (or past account deletion). Anonymous callers are
// trusted with the role named in the request body, matching the open API
// contract; an unknown role has priority zero and can do nothing.
func (s *Server) requesterRole(c *fiber.Ctx, bodyRole string) models.Role {
	if userID, ok := c.Locals("userID").(string); ok && userID != "" {
		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return models.RoleUser
		}
		return user.Role.OrDefault()
	}
	return models.Role(bodyRole).OrDefault()
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "Darkbin API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
