package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"mealhub/internal/config"
	"mealhub/internal/handlers"
	"mealhub/internal/middleware"
	"mealhub/internal/repositories/mongodb"
	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/pkg/broker"
	"mealhub/pkg/cache"
	"mealhub/pkg/database"
	"mealhub/pkg/logger"
	"mealhub/pkg/sms"
	"mealhub/pkg/storage"
	"mealhub/pkg/websocket"
	"mealhub/routes"
)

const (
	loginRequestsPerMinute = 30
	maxRequestBody         = 64 << 20
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     cfg.App.LogFormat,
		Output:     "stdout",
		TimeFormat: time.RFC3339,
		Colors:     cfg.IsDevelopment(),
		AppName:    cfg.App.Name,
		Version:    cfg.App.Version,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	mongo, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer mongo.Close()

	if cfg.Database.RunMigrations {
		if err := database.NewMigrator(mongo.Database, log).Up(ctx); err != nil {
			log.WithError(err).Fatal("Failed to run migrations")
		}
	}

	// Redis is optional
	var (
		redisCache *cache.RedisCache
		appCache   services.CacheService
		repoCache  mongodb.CacheService
		revoker    services.TokenRevoker
		otpLimiter services.RateLimiter
		channel    services.ChannelPublisher
		loginLimit gin.HandlerFunc
	)
	if cfg.Redis.Enabled() {
		redisCache, err = cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			KeyPrefix:    cfg.Redis.KeyPrefix,
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisCache.Close()

		appCache = redisCache
		repoCache = redisCache
		revoker = cache.NewTokenRevocationStore(redisCache)
		otpLimiter = cache.NewRateLimiter(redisCache, "otp", cfg.Security.OTPRequestsPerHour, time.Hour)
		channel = redisCache
		loginLimit = middleware.RateLimitMiddleware(cache.NewRateLimiter(redisCache, "login", loginRequestsPerMinute, time.Minute), log)
	} else {
		log.Warn("Redis not configured: rate limiting, token revocation and caching are disabled")
	}

	// Attachments
	provider, err := newStorageProvider(ctx, cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage provider")
	}
	sink := services.NewAttachmentSink(provider, uint(cfg.Storage.MaxImageWidth), log)
	log.WithField("sink", sink.Name()).Info("Attachment sink ready")

	// SMS
	smsProvider, err := newSMSProvider(ctx, cfg.SMS, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize SMS provider")
	}
	notifier := services.NewNotificationService(smsProvider, cfg.SMS.DefaultFrom, log)

	// Events
	hub := websocket.NewHub(log)
	busConfig := services.EventBusConfig{Hub: hub}
	if channel != nil {
		busConfig.Redis = channel
		busConfig.RedisChannel = cfg.Redis.EventChannel
	}
	if cfg.Broker.Enabled() {
		publisher, err := broker.NewPublisher(ctx, cfg.Broker.URL, cfg.Broker.Exchange, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to RabbitMQ")
		}
		defer publisher.Close()
		busConfig.Broker = publisher
	}
	events := services.NewEventBus(busConfig, log)

	// Repositories
	db := mongo.Database
	adminRepo := mongodb.NewAdminRepository(db)
	restaurantRepo := mongodb.NewRestaurantRepository(db, repoCache)
	driverRepo := mongodb.NewDriverRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	itemRepo := mongodb.NewItemRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	planRepo := mongodb.NewPlanRepository(db)
	offerRepo := mongodb.NewOfferRepository(db)
	reviewRepo := mongodb.NewReviewRepository(db)
	cartRepo := mongodb.NewCartRepository(db)
	toggleRepo := mongodb.NewToggleRepository(db, repoCache)
	analyticsRepo := mongodb.NewAnalyticsRepository(db)

	// Services
	tokens := utils.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.JWTAccessTokenTTL)
	authService := services.NewAuthService(adminRepo, restaurantRepo, driverRepo, userRepo, tokens, revoker, otpLimiter, notifier, events, services.AuthConfig{
		OTPExpiry:  cfg.Security.OTPExpiry,
		BcryptCost: cfg.Security.BcryptCost,
		ExposeOTP:  !cfg.IsProduction(),
	}, log)
	adminService := services.NewAdminService(adminRepo, driverRepo, userRepo, restaurantRepo, notifier, events, cfg.Security.BcryptCost, log)

	if cfg.Seed.SuperAdminPhone != "" && cfg.Seed.SuperAdminPassword != "" {
		if err := adminService.SeedSuperAdmin(ctx, cfg.Seed.SuperAdminName, cfg.Seed.SuperAdminPhone, cfg.Seed.SuperAdminPassword); err != nil {
			log.WithError(err).Fatal("Failed to seed super admin")
		}
	}

	// Initialize handlers
	wsHandler := websocket.NewHandler(hub, websocket.HandlerConfig{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		PingInterval:    cfg.WebSocket.PingInterval,
		PongTimeout:     cfg.WebSocket.PongTimeout,
		AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
	})
	h := &routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Driver:     handlers.NewDriverHandler(services.NewDriverService(driverRepo, sink, events, log)),
		User:       handlers.NewUserHandler(services.NewUserService(userRepo, sink, log)),
		Restaurant: handlers.NewRestaurantHandler(services.NewRestaurantService(restaurantRepo, sink, log)),
		Admin:      handlers.NewAdminHandler(adminService),
		Analytics:  handlers.NewAnalyticsHandler(services.NewAnalyticsService(analyticsRepo, appCache, log)),
		Item:       handlers.NewItemHandler(services.NewItemService(itemRepo, categoryRepo, sink, log)),
		Category:   handlers.NewCategoryHandler(services.NewCategoryService(categoryRepo, itemRepo, sink, log)),
		Plan:       handlers.NewPlanHandler(services.NewPlanService(planRepo, log)),
		Offer:      handlers.NewOfferHandler(services.NewOfferService(offerRepo, events, log)),
		Review:     handlers.NewReviewHandler(services.NewReviewService(reviewRepo, restaurantRepo, sink, events, log)),
		Cart:       handlers.NewCartHandler(services.NewCartService(cartRepo, itemRepo, log)),
		Toggle:     handlers.NewToggleHandler(services.NewToggleService(toggleRepo, reviewRepo, restaurantRepo, driverRepo, userRepo, notifier, events, log)),
		WebSocket:  handlers.NewWebSocketHandler(wsHandler, log),
	}

	// Initialize Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = utils.MaxUploadMemory
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		log.WithError(err).Fatal("Invalid trusted proxies")
	}

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.MaxBodySize(maxRequestBody))

	// API routes
	v1 := router.Group("/api/v1")
	routes.SetupRoutes(v1, h, authService, loginLimit)

	if provider != nil && provider.Name() == config.StorageProviderLocal {
		router.Static("/uploads", cfg.Storage.Local.BasePath)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		state := "healthy"
		if err := mongo.Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":  state,
			"version": cfg.App.Version,
			"clients": hub.ClientCount(),
		})
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Infof("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server stopped with error")
	}
	if closer, ok := provider.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	log.Info("Server stopped")
}

// newStorageProvider returns nil when uploads should be stored inline.
func newStorageProvider(ctx context.Context, cfg *config.StorageConfig) (storage.StorageProvider, error) {
	if !cfg.BlobConfigured() {
		return nil, nil
	}

	switch cfg.Provider {
	case config.StorageProviderAWS:
		return storage.NewAWSS3Storage(ctx, cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.CDNDomain)
	case config.StorageProviderGCP:
		return storage.NewGCPStorage(ctx, cfg.GCP.Bucket, cfg.GCP.CredentialsFile, cfg.GCP.CDNDomain)
	default:
		return storage.NewLocalStorage(cfg.Local.BasePath, cfg.Local.BaseURL)
	}
}

func newSMSProvider(ctx context.Context, cfg *config.SMSConfig, log *logger.Logger) (sms.SMSProvider, error) {
	switch cfg.Provider {
	case config.SMSProviderTwilio:
		if cfg.Twilio.AccountSID == "" || cfg.Twilio.AuthToken == "" {
			return nil, errors.New("twilio credentials are not configured")
		}
		return sms.NewTwilioProvider(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber), nil
	case config.SMSProviderAWS:
		return sms.NewAWSSNSProvider(ctx, cfg.AWS.Region, cfg.AWS.SenderID)
	default:
		return sms.NewLogProvider(log), nil
	}
}
