// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"redesocial/internal/config"
	"redesocial/internal/database"
	"redesocial/internal/events"
	"redesocial/internal/media"
	"redesocial/internal/middleware"
	"redesocial/internal/observability"
	"redesocial/internal/repository"
	"redesocial/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
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

	sink   events.Sink
	relay  *events.Relay
	fanout *events.Fanout

	mediaStore media.Store

	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService
	likeService    *service.LikeService
	followService  *service.FollowService
	storyService   *service.StoryService

	stopCleanup chan struct{}
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := events.NewRedisClient(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("redesocial-api"),
		stopCleanup:    make(chan struct{}),
	}

	if err := server.setupSink(); err != nil {
		return nil, err
	}

	mediaStore, err := media.NewLocalStore(cfg.MediaDir, "/media")
	if err != nil {
		return nil, err
	}
	server.mediaStore = mediaStore

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	shareRepo := repository.NewShareRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	counterRepo := repository.NewCounterRepository(db)

	timeout := cfg.StoreTimeout()
	server.userService = service.NewUserService(userRepo, cfg.JWTSecret, timeout)
	server.postService = service.NewPostService(postRepo, shareRepo, counterRepo, server.sink, timeout)
	server.commentService = service.NewCommentService(commentRepo, postRepo, counterRepo, server.sink, timeout)
	server.likeService = service.NewLikeService(likeRepo, postRepo, counterRepo, server.sink, timeout)
	server.followService = service.NewFollowService(followRepo, userRepo, counterRepo, timeout)
	server.storyService = service.NewStoryService(storyRepo, counterRepo, server.sink, timeout)

	return server, nil
}

// setupSink wires the event backend selected by configuration. The outbox
// backend stages events durably in the database and relays them into the
// Redis stream; the stream and kafka backends publish synchronously.
func (s *Server) setupSink() error {
	switch s.config.EventBackend {
	case config.EventBackendStream:
		s.sink = events.NewStreamSink(s.redis, s.config.EventTopic)
	case config.EventBackendKafka:
		sink, err := events.NewKafkaSink(s.config.KafkaBrokers, s.config.EventTopic)
		if err != nil {
			return fmt.Errorf("kafka sink setup failed: %w", err)
		}
		s.sink = sink
	default:
		s.sink = events.NewOutboxSink(s.db)
		downstream := events.NewStreamSink(s.redis, s.config.EventTopic)
		s.relay = events.NewRelay(s.db, downstream, s.config.OutboxRelayInterval())
	}

	if s.redis != nil {
		s.fanout = events.NewFanout(s.redis, s.config.EventTopic)
	}
	return nil
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
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit, so browser clients
	// still receive CORS headers on error responses.
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

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
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

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Redesocial Backend Metrics Dashboard",
	}))

	// Static media
	app.Static("/media", s.config.MediaDir)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public post routes
	publicPosts := api.Group("/posts")
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id", s.GetPost)

	// Public user routes
	api.Get("/users/:id/posts", s.GetUserPosts)
	api.Get("/users/:id/followers", s.GetFollowers)
	api.Get("/users/:id/following", s.GetFollowing)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Post("/:id/follow", s.FollowUser)
	users.Delete("/:id/follow", s.UnfollowUser)
	users.Get("/:id", s.GetUserProfile)

	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	posts.Post("/:id/share", s.SharePost)
	posts.Delete("/:id", s.DeletePost)

	stories := protected.Group("/stories")
	stories.Post("/", s.CreateStory)
	stories.Get("/user/:id", s.GetActiveStories)
	stories.Post("/:id/view", s.RecordStoryView)
	stories.Get("/:id/viewers", s.GetStoryViewers)

	protected.Post("/media", middleware.RateLimit(
		s.redis, 20, time.Minute, "upload_media"), s.UploadMedia)
}

// StartWorkers launches the background loops: the outbox relay, the pub/sub
// fanout, and the advisory story reaper.
func (s *Server) StartWorkers() {
	if s.relay != nil {
		s.relay.Start()
	}
	if s.fanout != nil {
		s.fanout.Start()
	}
	s.storyService.StartCleanup(s.config.StoryCleanupInterval(), s.stopCleanup)
}

// Shutdown stops workers and closes external connections.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stopCleanup)
	if s.fanout != nil {
		s.fanout.Stop()
	}
	if s.relay != nil {
		s.relay.Stop()
	}
	if s.sink != nil {
		if err := s.sink.Close(); err != nil {
			observability.GlobalLogger.Error("Event sink close failed", "error", err)
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return nil
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
	if s.redis == nil {
		redisStatus = "absent"
	} else if err := s.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   dbStatus,
		"database": dbStatus,
		"redis":    redisStatus,
		"time":     time.Now(),
	})
}
