package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blogcms-backend/internal/config"
	"blogcms-backend/internal/infrastructure/ai"
	infraCache "blogcms-backend/internal/infrastructure/cache"
	"blogcms-backend/internal/infrastructure/cdn"
	"blogcms-backend/internal/infrastructure/database"
	"blogcms-backend/internal/infrastructure/storage"
	"blogcms-backend/pkg/cache"
	"blogcms-backend/pkg/jwt"

	postHandler "blogcms-backend/internal/domains/post/handler"
	postRepo "blogcms-backend/internal/domains/post/repository"
	postService "blogcms-backend/internal/domains/post/service"
	userHandler "blogcms-backend/internal/domains/user/handler"
	userRepo "blogcms-backend/internal/domains/user/repository"
	userService "blogcms-backend/internal/domains/user/service"
)

// Container holds every application dependency.
// It is the root of the dependency graph; build order matters:
// config, infrastructure, repositories, services, handlers.
type Container struct {
	// Infrastructure (singletons)
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Versions   *cache.Versions
	JWTManager *jwt.Manager
	Storage    *storage.MediaStorage
	Summarizer ai.Summarizer
	CDN        cdn.Purger
	Workflows  postService.WorkflowClient

	// Repositories
	PostRepo   postRepo.RepositoryInterface
	SearchRepo postRepo.SearchRepository
	UserRepo   userRepo.RepositoryInterface

	// Services
	PostService postService.ServiceInterface
	AuthService userService.AuthServiceInterface

	// Handlers
	PostHandler *postHandler.Handler
	AuthHandler *userHandler.Handler
}

// NewContainer builds and wires the whole dependency graph
func NewContainer() (*Container, error) {
	c := &Container{}

	// Step 1: configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	// Step 2: database
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check: %w", err)
	}
	c.DB = db
	log.Info().Msg("Database connected")

	// Step 3: cache. A dead Redis degrades read performance but must not
	// keep the service from starting.
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Redis connection failed (non-critical)")
		} else {
			log.Info().Msg("Redis connected")
		}
	}
	c.Cache = redisCache
	c.Versions = cache.NewVersions(redisCache)

	// Step 4: remaining infrastructure
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	mediaStorage, err := storage.NewMediaStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("init media storage: %w", err)
	}
	c.Storage = mediaStorage

	c.Summarizer = ai.NewOpenAISummarizer(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	c.CDN = cdn.NewClient(cfg.CDN)
	c.Workflows = postService.NewWorkflowClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Step 5: repositories
	c.PostRepo = postRepo.NewPostgresRepository(db.Pool)
	c.SearchRepo = postRepo.NewPostgresSearchRepository(db.Pool)
	c.UserRepo = userRepo.NewPostgresRepository(db.Pool)

	// Step 6: services
	c.PostService = postService.NewPostService(
		c.PostRepo,
		c.SearchRepo,
		c.Cache,
		c.Versions,
		c.Workflows,
		c.Summarizer,
		c.CDN,
		c.Storage,
	)
	c.AuthService = userService.NewAuthService(
		c.UserRepo,
		c.JWTManager,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
	)

	// Step 7: handlers
	c.PostHandler = postHandler.NewHandler(c.PostService)
	c.AuthHandler = userHandler.NewHandler(c.AuthService)

	log.Info().Msg("Container initialized")
	return c, nil
}

// Close releases infrastructure resources in reverse dependency order
func (c *Container) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("Redis close failed")
		}
	}
	log.Info().Msg("Container closed")
}
