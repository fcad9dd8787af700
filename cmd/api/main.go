package main

import (
	"context"
	"os"
	"time"

	"real-estate-crm/internal/auth"
	"real-estate-crm/internal/cache"
	"real-estate-crm/internal/config"
	"real-estate-crm/internal/database"
	"real-estate-crm/internal/handlers"
	"real-estate-crm/internal/logging"
	"real-estate-crm/internal/metrics"
	"real-estate-crm/internal/models"
	"real-estate-crm/internal/ratelimit"
	"real-estate-crm/internal/scheduler"
	"real-estate-crm/internal/search"
	"real-estate-crm/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Server.Environment)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting api server",
		zap.String("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Type))

	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.InitSchema(db); err != nil {
		logger.Fatal("failed to initialize schema", zap.Error(err))
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.SigningKey, cfg.Auth.TokenTTL())
	if err != nil {
		logger.Fatal("failed to initialize token manager", zap.Error(err))
	}

	store := cache.New(cfg.Cache.ListTTL(), cfg.Cache.DetailTTL())

	searchClient := search.NewSearchClient(cfg.Search.Meilisearch.Host, cfg.Search.Meilisearch.APIKey)
	if err := searchClient.InitIndex(); err != nil {
		logger.Warn("failed to initialize search index", zap.Error(err))
	}

	objectStore, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		logger.Fatal("failed to connect to object storage", zap.Error(err))
	}

	limiter := ratelimit.New(
		cfg.RateLimit.RequestsPerMinute,
		cfg.RateLimit.RequestsPerHour,
		cfg.RateLimit.RequestsPerDay,
		cfg.RateLimit.Enabled,
	)

	sched := scheduler.New(db, cfg, logger)
	if err := sched.Start(); err != nil {
		logger.Warn("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	indexWorker := scheduler.NewIndexWorker(db, searchClient, logger)
	indexWorker.Start()
	defer indexWorker.Stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger(logger))

	m := metrics.New()
	r.Use(m.Middleware())
	r.GET("/metrics", metrics.Handler())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now(),
		})
	})

	authHandler := handlers.NewAuthHandler(db, tokens, logger)
	propertyHandler := handlers.NewPropertyHandler(db, store, searchClient, objectStore, logger)
	clientHandler := handlers.NewClientHandler(db, store)
	agentHandler := handlers.NewAgentHandler(db, store, objectStore)
	visitHandler := handlers.NewVisitHandler(db, store)
	contractHandler := handlers.NewContractHandler(db, store)
	settingsHandler := handlers.NewSettingsHandler(db, store)
	userHandler := handlers.NewUserHandler(db, logger)
	adminHandler := handlers.NewAdminHandler(db, sched, indexWorker, store, limiter, logger)

	r.POST("/api/auth/login", authHandler.Login)

	// Everything below requires a valid session.
	api := r.Group("/api", auth.RequireAuth(tokens))
	{
		api.GET("/auth/me", authHandler.Me)

		api.GET("/properties", propertyHandler.List)
		api.GET("/properties/:id", propertyHandler.Get)
		api.GET("/search", propertyHandler.Search)
		api.POST("/search/advanced", propertyHandler.AdvancedSearch)
		api.GET("/search/facets", propertyHandler.Facets)

		api.GET("/clients", clientHandler.List)
		api.GET("/clients/search", clientHandler.Search)
		api.GET("/clients/:id", clientHandler.Get)

		api.GET("/agents", agentHandler.List)
		api.GET("/agents/search", agentHandler.Search)
		api.GET("/agents/:id", agentHandler.Get)

		api.GET("/visits", visitHandler.List)
		api.GET("/visits/:id", visitHandler.Get)

		api.GET("/contracts", contractHandler.List)
		api.GET("/contracts/:id", contractHandler.Get)

		api.GET("/settings", settingsHandler.List)
		api.GET("/settings/:key", settingsHandler.Get)
	}

	// Mutating routes require the agent role and pass the rate limiter.
	write := r.Group("/api", auth.RequireAuth(tokens),
		auth.RequireRole(models.RoleAgent), ratelimit.Middleware(limiter))
	{
		write.POST("/properties", propertyHandler.Create)
		write.PUT("/properties/:id", propertyHandler.Update)
		write.DELETE("/properties/:id", propertyHandler.Delete)
		write.POST("/properties/:id/photos", propertyHandler.UploadPhoto)

		write.POST("/clients", clientHandler.Create)
		write.PUT("/clients/:id", clientHandler.Update)
		write.DELETE("/clients/:id", clientHandler.Delete)

		write.POST("/agents", agentHandler.Create)
		write.PUT("/agents/:id", agentHandler.Update)
		write.DELETE("/agents/:id", agentHandler.Delete)
		write.POST("/agents/:id/stats", agentHandler.Stats)
		write.POST("/agents/:id/avatar", agentHandler.UploadAvatar)

		write.POST("/visits", visitHandler.Create)
		write.PUT("/visits/:id", visitHandler.Update)
		write.DELETE("/visits/:id", visitHandler.Delete)

		write.POST("/contracts", contractHandler.Create)
		write.PUT("/contracts/:id", contractHandler.Update)
		write.DELETE("/contracts/:id", contractHandler.Delete)
		write.POST("/contracts/:id/sign", contractHandler.Sign)
		write.POST("/contracts/:id/close", contractHandler.Close)
	}

	// Admin routes.
	admin := r.Group("/api/admin", auth.RequireAuth(tokens), auth.RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", userHandler.List)
		admin.POST("/users", userHandler.Create)
		admin.PUT("/users/:id", userHandler.Update)
		admin.DELETE("/users/:id", userHandler.Delete)

		admin.PUT("/settings/:key", settingsHandler.Put)
		admin.DELETE("/settings/:key", settingsHandler.Delete)

		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/activity", adminHandler.GetRecentActivity)
		admin.GET("/city-stats", adminHandler.GetCityStats)
		admin.GET("/price-distribution", adminHandler.GetPriceDistribution)
		admin.GET("/top-agents", adminHandler.GetTopAgents)
		admin.GET("/monthly-volume", adminHandler.GetMonthlyContractVolume)

		admin.POST("/maintenance/run", adminHandler.TriggerMaintenance)
		admin.POST("/search/reindex", propertyHandler.Reindex)
		admin.GET("/queue/stats", adminHandler.GetQueueStats)
		admin.GET("/ratelimit/stats", adminHandler.GetRateLimitStats)
		admin.POST("/cache/flush", adminHandler.FlushCache)
	}

	logger.Info("server listening", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server terminated", zap.Error(err))
	}
}
