// Package server contains the HTTP handlers for the rental marketplace API.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"nhatro/internal/cache"
	"nhatro/internal/config"
	"nhatro/internal/database"
	"nhatro/internal/middleware"
	"nhatro/internal/models"
	"nhatro/internal/repository"
	"nhatro/internal/service"
	"nhatro/internal/storage"

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

const (
	tokenIssuer   = "nhatro-api"
	tokenAudience = "nhatro-client"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo repository.UserRepository
	postRepo repository.PostRepository

	userService       *service.UserService
	postService       *service.PostService
	commentService    *service.CommentService
	moderationService *service.ModerationService
	favouriteService  *service.FavouriteService
	historyService    *service.HistoryService
	amenityService    *service.AmenityService
	imageService      *service.ImageService

	blobs *storage.LocalStore
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests and bootstrap code use this to inject their own DB and Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	blobs, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		return nil, fmt.Errorf("blob store init failed: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	favRepo := repository.NewFavouriteRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	amenityRepo := repository.NewAmenityRepository(db)
	imageRepo := repository.NewImageRepository(db)

	prom := middleware.InitMetrics("nhatro-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		postRepo:       postRepo,
		blobs:          blobs,
	}
	server.userService = service.NewUserService(userRepo)
	server.postService = service.NewPostService(postRepo, userRepo)
	server.commentService = service.NewCommentService(db, commentRepo, postRepo)
	server.moderationService = service.NewModerationService(db)
	server.favouriteService = service.NewFavouriteService(favRepo, postRepo, userRepo)
	server.historyService = service.NewHistoryService(historyRepo, postRepo, userRepo)
	server.amenityService = service.NewAmenityService(amenityRepo, postRepo)
	server.imageService = service.NewImageService(imageRepo, postRepo, blobs)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())
	app.Use(middleware.TracingMiddleware())

	// CORS before anything that can short-circuit, so browser clients
	// still get CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limit per IP; per-endpoint limits are layered on in routes.
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.FailResponse{
				Status:  "fail",
				Message: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Nhatro Backend Metrics Dashboard",
	}))

	// Uploaded listing photos
	app.Static(s.config.UploadBaseURL, s.blobs.Dir())

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public browse/search routes
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/search", middleware.RateLimit(
		s.redis, 30, time.Minute, "search"), s.SearchPosts)
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id/amenity", s.GetAmenity)
	posts.Get("/:id/images", s.GetImages)
	posts.Get("/:id", s.GetPost)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Delete("/me", s.DeleteMyAccount)
	users.Get("/", s.AdminRequired(), s.GetAllUsers)
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id/stats", s.GetUserStats)
	users.Post("/:id/make-admin", s.AdminRequired(), s.MakeAdmin)
	users.Get("/:id", s.GetUserProfile)

	// Listing management
	myPosts := protected.Group("/posts")
	myPosts.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	myPosts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_comment"), s.CreateComment)
	myPosts.Post("/:id/report", s.ReportPost)
	myPosts.Post("/:id/amenity", s.AddAmenity)
	myPosts.Put("/:id/amenity", s.UpdateAmenity)
	myPosts.Delete("/:id/amenity", s.DeleteAmenity)
	myPosts.Post("/:id/images", s.AddImage)
	myPosts.Post("/:id/images/upload", s.UploadImages)
	myPosts.Put("/:id", s.UpdatePost)
	myPosts.Delete("/:id", s.DeletePost)

	images := protected.Group("/images")
	images.Delete("/:id", s.DeleteImage)

	comments := protected.Group("/comments")
	comments.Post("/:id/report", s.ReportComment)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	// Favourites and view history
	favourites := protected.Group("/favourites")
	favourites.Get("/", s.GetFavourites)
	favourites.Post("/:postId", s.AddFavourite)
	favourites.Delete("/:postId", s.RemoveFavourite)

	history := protected.Group("/history")
	history.Get("/", s.GetHistory)
	history.Post("/:postId", s.AddHistory)
	history.Delete("/", s.ClearHistory)

	// Admin moderation console
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/posts/pending", s.GetPendingPosts)
	admin.Get("/posts/reported", s.GetReportedPosts)
	admin.Get("/comments/pending", s.GetPendingComments)
	admin.Get("/comments/reported", s.GetReportedComments)
	admin.Post("/posts/:id/approve", s.ApprovePost)
	admin.Post("/posts/:id/reject", s.RejectPost)
	admin.Post("/comments/:id/approve", s.ApproveComment)
	admin.Post("/comments/:id/reject", s.RejectComment)
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

	// Redis is an optional accelerator here, not a readiness gate.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns middleware that resolves a bearer token into the
// typed actor every protected handler works with.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := s.actorFromRequest(c)
		if err != nil {
			return models.RespondWithError(c, err)
		}

		c.Locals("actor", actor)
		// Rate limiting, tracing, and log enrichment key off this local.
		c.Locals("userID", actor.ID)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, actor.ID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// AdminRequired rejects non-admin actors. Must run after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := currentActor(c)
		if !actor.IsAdmin {
			return models.RespondWithError(c, models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// actorFromRequest validates the bearer token and builds the Actor from
// its claims. The admin bit is re-read from the store so a revoked admin
// loses power on the next request, not at token expiry.
func (s *Server) actorFromRequest(c *fiber.Ctx) (models.Actor, error) {
	authHeader := c.Get("Authorization")
	tokenString := ""
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		return models.Actor{}, models.NewUnauthorizedError("Authorization required")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return models.Actor{}, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Actor{}, models.NewUnauthorizedError("Invalid token claims")
	}
	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return models.Actor{}, models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return models.Actor{}, models.NewUnauthorizedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return models.Actor{}, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return models.Actor{}, models.NewUnauthorizedError("Invalid user ID in token")
	}

	// The resolved actor is cached under the user key; profile updates,
	// admin grants and deletions all invalidate it, so a revoked admin
	// still loses power on the next request.
	var actor models.Actor
	err = cache.Aside(c.Context(), cache.UserKey(uint(userID)), &actor, cache.UserTTL, func() error {
		user, err := s.userRepo.GetByID(c.Context(), uint(userID))
		if err != nil {
			return err
		}
		actor = models.Actor{ID: user.ID, IsAdmin: user.IsAdmin}
		return nil
	})
	if err != nil {
		return models.Actor{}, models.NewUnauthorizedError("Account no longer exists")
	}

	return actor, nil
}

// currentActor returns the actor placed in locals by AuthRequired.
func currentActor(c *fiber.Ctx) models.Actor {
	actor, _ := c.Locals("actor").(models.Actor)
	return actor
}

// optionalActor resolves the actor when a token is present but never
// fails the request; public pages use it to show owners their own
// hidden listings.
func (s *Server) optionalActor(c *fiber.Ctx) *models.Actor {
	if c.Get("Authorization") == "" {
		return nil
	}
	actor, err := s.actorFromRequest(c)
	if err != nil {
		return nil
	}
	return &actor
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Nhatro API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, models.NewStoreError(err))
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
