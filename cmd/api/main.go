package main

import (
	"fmt"
	"net/http"
	"os"

	"paisabook/internal/config"
	"paisabook/internal/database"
	"paisabook/internal/handlers"
	"paisabook/internal/logger"
	"paisabook/internal/middleware"
	"paisabook/internal/services"
	"paisabook/internal/smsparser"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "paisabook/internal/docs" // Import swagger docs
)

// @title           Paisabook API
// @version         1.0
// @description     Paisabook is a personal budget tracker that records transactions manually or by parsing bank SMS notifications forwarded from a phone.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey WebhookKey
// @in header
// @name X-API-Key
// @description Shared key for the SMS gateway webhook.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	parser := smsparser.New(smsparser.WithUSDINRRate(appConfig.USDINRRate))
	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db)
	analyticsService := services.NewAnalyticsService(db)
	phoneLinkService := services.NewPhoneLinkService(db)
	notificationService := services.NewNotificationService(db)
	smsService := services.NewSMSService(db, parser, phoneLinkService, transactionService, budgetService, notificationService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	categoryHandler := handlers.NewCategoryHandler()
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	phoneLinkHandler := handlers.NewPhoneLinkHandler(phoneLinkService, auditService)
	smsHandler := handlers.NewSMSHandler(smsService, auditService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// SMS gateway webhook, authenticated by shared key rather than a user JWT
	webhooks := v1.Group("/webhooks")
	webhooks.Use(middleware.WebhookAuthMiddleware(appConfig.WebhookAPIKey))
	webhooks.POST("/sms", smsHandler.Ingest)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Category catalog
	protected.GET("/categories", categoryHandler.GetCategories)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	// Analytics routes
	analytics := protected.Group("/analytics")
	analytics.GET("/summary", analyticsHandler.GetMonthlySummary)
	analytics.GET("/categories", analyticsHandler.GetCategoryBreakdown)
	analytics.GET("/trend", analyticsHandler.GetSpendingTrend)
	analytics.GET("/daily", analyticsHandler.GetDailySpending)

	// Phone link routes
	phoneLinks := protected.Group("/phone-links")
	phoneLinks.POST("", phoneLinkHandler.CreateLink)
	phoneLinks.GET("", phoneLinkHandler.GetLinks)
	phoneLinks.POST("/:id/activate", phoneLinkHandler.ActivateLink)
	phoneLinks.POST("/:id/deactivate", phoneLinkHandler.DeactivateLink)
	phoneLinks.DELETE("/:id", phoneLinkHandler.DeleteLink)

	// SMS review routes
	sms := protected.Group("/sms")
	sms.GET("/review", smsHandler.GetReviewQueue)
	sms.GET("/:id", smsHandler.GetMessage)
	sms.POST("/:id/classify", smsHandler.Classify)
	sms.POST("/:id/ignore", smsHandler.Ignore)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
	notifications.POST("/:id/read", notificationHandler.MarkRead)
	notifications.POST("/read-all", notificationHandler.MarkAllRead)

	log.Infof("Starting Paisabook backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
