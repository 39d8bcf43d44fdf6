// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"chatter/internal/bootstrap"
	"chatter/internal/cache"
	"chatter/internal/config"
	"chatter/internal/database"
	"chatter/internal/middleware"
	"chatter/internal/observability"
	"chatter/internal/repository"
	"chatter/internal/service"

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
	promMiddleware *fiberprometheus.FiberPrometheus

	store repository.Store
	tx    repository.TxRunner

	attachments     *service.AttachmentService
	postService     *service.PostService
	commentService  *service.CommentService
	replyService    *service.ReplyService
	reactionService *service.ReactionService

	tracingShutdown func(context.Context) error
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	if err := bootstrap.EnsureDevOwner(cfg, db); err != nil {
		return nil, fmt.Errorf("development owner bootstrap failed: %w", err)
	}

	middleware.InitMiddleware(cfg)

	tracingShutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "chatter-api",
		ServiceVersion: "1.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.TracingOTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing initialization failed: %w", err)
	}

	store := repository.NewStore(db)
	tx := repository.NewTxRunner(db)

	mediaDir := cfg.MediaUploadDir
	if mediaDir == "" {
		mediaDir = service.DefaultMediaUploadDir
	}
	attachments := service.NewAttachmentService(service.NewDiskMediaStore(mediaDir), cfg)

	return &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("chatter-api"),
		store:           store,
		tx:              tx,
		attachments:     attachments,
		postService:     service.NewPostService(tx, store, attachments),
		commentService:  service.NewCommentService(tx, store, attachments),
		replyService:    service.NewReplyService(tx, store),
		reactionService: service.NewReactionService(tx, store),
		tracingShutdown: tracingShutdown,
	}, nil
}

// SetupMiddleware registers the global middleware stack.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
	}))
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.RequestLogging())

	s.promMiddleware.RegisterAt(app, "/metrics")
	app.Use(s.promMiddleware.Middleware)

	// Mutations are rate limited; reads stay unthrottled.
	app.Use("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodGet
		},
	}))
}

// SetupRoutes registers the API routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.Health)

	// Stored attachments are served straight from the upload directory.
	if s.config != nil && s.config.MediaUploadDir != "" {
		app.Static("/media", s.config.MediaUploadDir)
	}

	api := app.Group("/api")

	posts := api.Group("/posts")
	posts.Post("/", middleware.AuthRequired, s.CreatePost)
	posts.Get("/:id", middleware.OptionalAuth, s.GetPost)
	posts.Patch("/:id", middleware.AuthRequired, s.UpdatePost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)

	posts.Get("/:id/comments", middleware.OptionalAuth, s.GetComments)
	posts.Post("/:id/comments", middleware.AuthRequired, s.CreateComment)
	posts.Get("/:id/reactions", middleware.OptionalAuth, s.GetReactions)
	posts.Post("/:id/reactions", middleware.AuthRequired, s.React)
	posts.Post("/:id/reconcile", middleware.AuthRequired, s.ReconcilePost)

	comments := api.Group("/comments")
	comments.Patch("/:id", middleware.AuthRequired, s.UpdateComment)
	comments.Delete("/:id", middleware.AuthRequired, s.DeleteComment)
	comments.Get("/:id/replies", middleware.OptionalAuth, s.GetReplies)
	comments.Post("/:id/replies", middleware.AuthRequired, s.CreateReply)
	comments.Post("/:id/reconcile", middleware.AuthRequired, s.ReconcileComment)

	replies := api.Group("/replies")
	replies.Patch("/:id", middleware.AuthRequired, s.UpdateReply)
	replies.Delete("/:id", middleware.AuthRequired, s.DeleteReply)

	api.Get("/users/:id/posts", middleware.OptionalAuth, s.GetUserPosts)
}

// Health reports process liveness.
func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			return err
		}
	}
	if s.tracingShutdown != nil {
		return s.tracingShutdown(ctx)
	}
	return nil
}
