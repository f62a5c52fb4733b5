package container

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"medlink-backend/internal/config"
	infraCache "medlink-backend/internal/infrastructure/cache"
	"medlink-backend/internal/infrastructure/database"
	"medlink-backend/internal/infrastructure/queue"
	"medlink-backend/pkg/cache"
	"medlink-backend/pkg/logger"

	authHandler "medlink-backend/internal/domains/auth/handler"
	authService "medlink-backend/internal/domains/auth/service"
	"medlink-backend/internal/domains/customer"
	customerHandler "medlink-backend/internal/domains/customer/handler"
	customerRepo "medlink-backend/internal/domains/customer/repository"
	customerService "medlink-backend/internal/domains/customer/service"
	"medlink-backend/internal/domains/pharmacy"
	"medlink-backend/internal/domains/pharmacy/ai"
	pharmacyHandler "medlink-backend/internal/domains/pharmacy/handler"
	pharmacyRepo "medlink-backend/internal/domains/pharmacy/repository"
	pharmacyService "medlink-backend/internal/domains/pharmacy/service"
	"medlink-backend/internal/domains/review"
	reviewHandler "medlink-backend/internal/domains/review/handler"
	reviewRepo "medlink-backend/internal/domains/review/repository"
	reviewService "medlink-backend/internal/domains/review/service"
	"medlink-backend/internal/domains/user"
	userHandler "medlink-backend/internal/domains/user/handler"
	userRepo "medlink-backend/internal/domains/user/repository"
	userService "medlink-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER
// ========================================

// Container is the root of the dependency graph. Everything in it is a
// singleton living for the process lifetime.
type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	RedisClient *redis.Client
	Store       cache.Store
	AsynqClient *asynq.Client

	UserRepo     user.Repository
	CustomerRepo customer.Repository
	PharmacyRepo pharmacy.Repository
	ReviewRepo   review.Repository

	AuthService     authService.ServiceInterface
	UserService     userService.ServiceInterface
	CustomerService customerService.ServiceInterface
	PharmacyService pharmacyService.ServiceInterface
	ReviewService   reviewService.ServiceInterface

	AuthHandler     *authHandler.AuthHandler
	UserHandler     *userHandler.UserHandler
	CustomerHandler *customerHandler.CustomerHandler
	PharmacyHandler *pharmacyHandler.PharmacyHandler
	ReviewHandler   *reviewHandler.ReviewHandler
}

// NewContainer builds the whole graph in dependency order:
// config, infrastructure, repositories, services, handlers.
func NewContainer(ctx context.Context) (*Container, error) {
	c := &Container{}

	// Step 1: Configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)

	// Step 2: Infrastructure
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	c.DB = db

	c.RedisClient = infraCache.NewRedisClient(cfg.Redis)
	if err := infraCache.Ping(ctx, c.RedisClient); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	c.Store = cache.NewRedisStore(c.RedisClient)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Step 3: Repositories
	c.UserRepo = userRepo.NewPostgresUserRepository(db.Pool)
	c.CustomerRepo = customerRepo.NewPostgresCustomerRepository(db.Pool)
	c.PharmacyRepo = pharmacyRepo.NewPostgresPharmacyRepository(db.Pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(db.Pool)

	// Step 4: Services
	mailer := queue.NewMailer(c.AsynqClient)
	lookup := ai.NewGeminiLookup(cfg.AI.GeminiAPIKey)

	c.AuthService = authService.NewAuthService(c.Store, c.UserRepo, mailer, cfg.Auth)
	c.UserService = userService.NewUserService(c.UserRepo)
	c.CustomerService = customerService.NewCustomerService(c.CustomerRepo, c.PharmacyRepo)
	c.PharmacyService = pharmacyService.NewPharmacyService(c.PharmacyRepo, lookup)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.PharmacyRepo)

	// Step 5: Handlers
	c.AuthHandler = authHandler.NewAuthHandler(c.AuthService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.CustomerHandler = customerHandler.NewCustomerHandler(c.CustomerService)
	c.PharmacyHandler = pharmacyHandler.NewPharmacyHandler(c.PharmacyService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)

	logger.Info("Container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})
	return c, nil
}

// Close releases infrastructure connections in reverse order.
func (c *Container) Close() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Warn("Failed to close asynq client", map[string]interface{}{"error": err.Error()})
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close redis client", map[string]interface{}{"error": err.Error()})
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
