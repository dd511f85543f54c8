// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	_ "kindred/docs" // swagger docs
	"kindred/internal/cache"
	"kindred/internal/config"
	"kindred/internal/database"
	"kindred/internal/middleware"
	"kindred/internal/models"
	"kindred/internal/notifications"
	"kindred/internal/repository"
	"kindred/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	cache          *cache.Service
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo         repository.UserRepository
	connectionRepo   repository.ConnectionRequestRepository
	friendshipRepo   repository.FriendshipRepository
	subscriptionRepo repository.SubscriptionRepository
	callRepo         repository.CallRepository

	notifier *notifications.Notifier

	gateService         *service.GateService
	connectionService   *service.ConnectionService
	friendshipService   *service.FriendshipService
	subscriptionService *service.SubscriptionService
	accessService       *service.AccessService
	callService         *service.CallService
	userService         *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cacheSvc := cache.NewService(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cacheSvc), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, cacheSvc *cache.Service) *Server {
	userRepo := repository.NewUserRepository(db)
	connectionRepo := repository.NewConnectionRequestRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	callRepo := repository.NewCallRepository(db)

	prom := middleware.InitMetrics("kindred-api")

	server := &Server{
		config:           cfg,
		db:               db,
		cache:            cacheSvc,
		promMiddleware:   prom,
		userRepo:         userRepo,
		connectionRepo:   connectionRepo,
		friendshipRepo:   friendshipRepo,
		subscriptionRepo: subscriptionRepo,
		callRepo:         callRepo,
	}

	server.gateService = service.NewGateService(friendshipRepo, subscriptionRepo, cacheSvc)
	server.connectionService = service.NewConnectionService(connectionRepo, friendshipRepo, userRepo, server.gateService, cacheSvc)
	server.friendshipService = service.NewFriendshipService(friendshipRepo, cacheSvc)
	server.subscriptionService = service.NewSubscriptionService(subscriptionRepo, friendshipRepo, cacheSvc)
	server.accessService = service.NewAccessService(userRepo, friendshipRepo, cacheSvc)
	server.callService = service.NewCallService(callRepo, userRepo, server.gateService)
	server.userService = service.NewUserService(userRepo, cacheSvc)

	if cacheSvc.Client() != nil {
		server.notifier = notifications.NewNotifier(cacheSvc.Client())
	}

	return server
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

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
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
		// Never rate-limit preflight requests; they are handled by CORS.
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
		Title: "Kindred Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	protected := api.Group("", s.AuthRequired())

	// Connection request workflow
	connections := protected.Group("/connections")
	connections.Post("/", middleware.RateLimit(
		s.redisClient(), 10, 5*time.Minute, "send_connection"), s.SendConnectionRequest)
	connections.Get("/pending", s.GetPendingConnections)
	connections.Put("/:id/accept", s.AcceptConnectionRequest)
	connections.Put("/:id/decline", s.DeclineConnectionRequest)
	connections.Delete("/:id", s.CancelConnectionRequest)

	// Friendships
	protected.Get("/friends", s.GetFriends)
	friendships := protected.Group("/friendships")
	friendships.Delete("/:id", s.RemoveFriend)
	friendships.Post("/:id/block", s.BlockFriend)
	friendships.Post("/:id/unblock", s.UnblockFriend)
	friendships.Post("/:id/interactions", s.RecordInteraction)
	friendships.Post("/:id/unlock-video", s.UnlockVideo)

	// Calls
	calls := protected.Group("/calls")
	calls.Post("/", middleware.RateLimit(
		s.redisClient(), 30, time.Minute, "initiate_call"), s.InitiateCall)
	calls.Get("/", s.GetCallHistory)

	// Profiles
	profiles := protected.Group("/profiles")
	profiles.Get("/me", s.GetMyProfile)
	profiles.Put("/me", s.UpdateMyProfile)
	profiles.Get("/:id", s.GetProfile)

	// Subscriptions
	subscriptions := protected.Group("/subscriptions")
	subscriptions.Get("/me", s.GetMySubscription)
	subscriptions.Post("/create", s.CreateSubscription)
	subscriptions.Post("/cancel", s.CancelSubscription)
	subscriptions.Post("/renewal/succeeded", s.RenewalSucceeded)
	subscriptions.Post("/renewal/failed", s.RenewalFailed)
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
	if rdb := s.redisClient(); rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The cache degrades to pass-through without Redis, but events and
		// rate limits need it, so readiness reports it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. Caller identity arrives
// as a bearer token minted by the external auth collaborator; this middleware
// only validates it and injects userID into the request context.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "kindred-api" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "kindred-client" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", uint(userID))
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Kindred API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server, closing the HTTP listener, the
// database pool, and the Redis connection.
func (s *Server) Shutdown(ctx context.Context) error {
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

	if err := s.cache.Close(); err != nil {
		log.Printf("error closing redis: %v", err)
	}

	log.Println("Server shutdown complete")
	return nil
}
