// Package server contains the HTTP handlers and routing for the vzsocial API.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "vzsocial/docs" // swagger docs
	"vzsocial/internal/bootstrap"
	"vzsocial/internal/config"
	"vzsocial/internal/database"
	"vzsocial/internal/featureflags"
	"vzsocial/internal/middleware"
	"vzsocial/internal/models"
	"vzsocial/internal/repository"
	"vzsocial/internal/service"
	"vzsocial/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// API prefixes. Older mobile clients still call the legacy one.
const (
	apiPrefix    = "/api"
	legacyPrefix = "/RestApi"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	store          storage.ObjectStore
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager

	comments *service.CommentService
	feed     *service.FeedService
	likes    *service.LikeService
	accounts *service.AccountService
	follows  *service.FollowService
	media    *service.MediaService
	catalog  *service.CatalogService
	admins   *service.AdminService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		return nil, err
	}

	store, err := storage.New(storage.Config{
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		UseSSL:        cfg.S3UseSSL,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage init failed: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("object storage bucket check failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, store)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis/storage.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.ObjectStore) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("config and database are required")
	}
	if store == nil {
		return nil, errors.New("object store is required")
	}

	customerRepo := repository.NewCustomerRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	songRepo := repository.NewSongRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	flags := featureflags.NewManager(cfg.FeatureFlags)
	engagement := service.NewEngagementCounter(likeRepo, commentRepo)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		store:          store,
		promMiddleware: middleware.InitMetrics("vzsocial-api"),
		featureFlags:   flags,
		comments:       service.NewCommentService(commentRepo, postRepo, customerRepo),
		feed:           service.NewFeedService(customerRepo, postRepo, followRepo, engagement, flags, cfg.FeedConcurrency),
		likes:          service.NewLikeService(likeRepo, postRepo, customerRepo),
		accounts:       service.NewAccountService(customerRepo, postRepo, followRepo, engagement),
		follows:        service.NewFollowService(followRepo, customerRepo),
		media:          service.NewMediaService(postRepo, songRepo, customerRepo, store),
		catalog:        service.NewCatalogService(catalogRepo, store),
		admins:         service.NewAdminService(adminRepo),
	}, nil
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	bodyLimit := 4 * 1024 * 1024
	if s.config.MediaMaxUploadSizeMB > 0 {
		// Room for up to ten files per request plus form fields.
		bodyLimit = s.config.MediaMaxUploadSizeMB * 1024 * 1024 * (maxFilesPerRequest + 1)
	}

	app := fiber.New(fiber.Config{
		AppName:   "vzsocial API",
		BodyLimit: bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Tracing runs before ContextMiddleware so the trace id reaches the logger.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/swagger/*", swagger.HandlerDefault)

	s.registerAPI(app.Group(apiPrefix))
	s.registerAPI(app.Group(legacyPrefix))
}

func (s *Server) registerAPI(api fiber.Router) {
	secret := s.config.JWTSecret
	optional := middleware.OptionalAuth(secret)
	auth := middleware.AuthRequired(secret)
	admin := middleware.AdminRequired(models.AdminRoleAdmin)

	write := func(name string, limit int, window time.Duration) fiber.Handler {
		return middleware.RateLimit(s.redis, middleware.Limit{Name: name, Max: limit, Window: window})
	}

	api.Get("/", s.ReadinessCheck)

	// Accounts
	api.Post("/register", write("register", 5, 10*time.Minute), s.Register)
	api.Post("/login", write("login", 10, 5*time.Minute), s.Login)
	api.Post("/checknumber", s.CheckNumber)
	api.Get("/profile/:id", optional, s.GetProfile)

	// Follow graph
	api.Post("/follow", optional, write("follow", 30, time.Minute), s.Follow)
	api.Post("/follow_back/:id", write("follow_back", 30, time.Minute), s.FollowBack)
	api.Get("/follow_back/:id", s.FollowBack)

	// Feed and engagement
	api.Get("/home/:id", optional, s.GetHome)
	api.Post("/like", optional, write("like", 60, time.Minute), s.ToggleLike)

	// Comments
	api.Get("/comment/:post_id", optional, s.GetComments)
	api.Post("/comment", optional, write("create_comment", 20, time.Minute), s.CreateComment)
	api.Delete("/comment/:id", auth, s.DeleteComment)

	// Media
	api.Post("/post", optional, write("upload_post", 10, time.Minute), s.uploadPostHandler(models.PostTypePost))
	api.Post("/reel", optional, write("upload_reel", 10, time.Minute), s.uploadPostHandler(models.PostTypeReel))
	api.Post("/story", optional, write("upload_story", 10, time.Minute), s.uploadPostHandler(models.PostTypeStory))
	api.Post("/song", write("upload_song", 10, time.Minute), s.UploadSong)
	api.Get("/song", s.GetSongs)

	// Catalog
	movies := api.Group("/movies")
	movies.Get("/", s.GetMovies)
	movies.Post("/upload", auth, admin, s.UploadMovie)
	movies.Post("/episodes/upload", auth, admin, s.UploadEpisode)
	movies.Get("/:movie_id/episodes", s.GetEpisodes)

	// Admin users
	admins := api.Group("/admin")
	admins.Post("/register", optional, write("admin_register", 5, 10*time.Minute), s.RegisterAdmin)
	admins.Post("/login", write("admin_login", 10, 5*time.Minute), s.LoginAdmin)
	admins.Get("/users", auth, admin, s.GetAdminUsers)
	admins.Get("/feature-flags", auth, middleware.AdminRequired(), s.GetFeatureFlags)
}

// Start builds the app and blocks serving on the configured port.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("server starting", "port", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.db != nil {
		if err := database.Close(s.db); err != nil {
			middleware.Logger.Error("error closing database", "error", err)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
