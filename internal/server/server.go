package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	feedService    *service.FeedService
	postService    *service.PostService
	commentService *service.CommentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Initialize Redis; the cache store is fail-open, so a nil client
	// only disables caching.
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()
	store := cache.NewRedisStore(redisClient)
	invalidator := cache.NewFeedInvalidator(store)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	server := &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
	server.feedService = service.NewFeedService(postRepo, store)
	server.postService = service.NewPostService(postRepo, invalidator, server.isAdminByUserID)
	server.commentService = service.NewCommentService(commentRepo, postRepo, invalidator)

	middleware.InitMiddleware(cfg)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// Security headers
	app.Use(helmet.New())

	// Recover from panics in handlers
	app.Use(recover.New())

	// Structured Logging middleware
	app.Use(middleware.StructuredLogger())

	// Prometheus HTTP metrics
	prom := fiberprometheus.New("inkwell-api")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	// CORS middleware
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
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/health", s.HealthCheck)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public post routes; OptionalAuth resolves viewer identity for
	// per-viewer like/favorite flags.
	publicPosts := api.Group("/posts", middleware.OptionalAuth)
	publicPosts.Get("/", s.GetFeed)
	publicPosts.Get("/search", middleware.RateLimit(s.redis, 10, time.Minute, "search"), s.SearchPosts)
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id", s.GetPost)

	// Public user routes
	api.Get("/users/:id/posts", middleware.OptionalAuth, s.GetUserPosts)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/", s.GetAllUsers)
	users.Get("/:id", s.GetUserProfile)

	favorites := protected.Group("/favorites")
	favorites.Get("/", s.GetFavorites)

	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	// Specific /:id/:resource routes go BEFORE generic /:id routes
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Post("/:id/favorite", s.FavoritePost)
	posts.Delete("/:id/favorite", s.UnfavoritePost)
	posts.Post("/:id/comments", middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Delete("/:id/comments/:commentId", s.DeleteComment)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)
}

// HealthCheck handles GET /api/health
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Shutdown releases server resources: the database pool and, when
// caching is enabled, the Redis client.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			log.Printf("error closing redis client: %v", cerr)
		}
	}
	return nil
}
