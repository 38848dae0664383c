package app

import (
	"context"
	"errors"
	"fmt"

	"prowork_backend/database"
	"prowork_backend/internal/config"
	"prowork_backend/internal/email"
	"prowork_backend/internal/handlers"
	"prowork_backend/internal/logger"
	"prowork_backend/internal/middleware"
	"prowork_backend/internal/models"
	"prowork_backend/internal/repositories"
	"prowork_backend/internal/routes"
	"prowork_backend/internal/services"
	"prowork_backend/internal/validator"
	"prowork_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ginRouter, dispatcher := SetupRouter(cfg, gormDB)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full application graph. The dispatcher is
// returned unstarted so callers control its lifecycle.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *workers.Dispatcher) {
	serviceContainer, dispatcher := initializeServices(cfg, gormDB)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, cfg)

	return ginRouter, dispatcher
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) (*services.ServiceContainer, *workers.Dispatcher) {
	var emailProvider email.Provider
	if cfg.Email.Enabled {
		emailProvider = email.NewSMTPProvider(cfg)
	} else {
		logger.Warn("Email delivery disabled; using noop provider")
		emailProvider = email.NewNoopProvider()
	}

	userRepo := repositories.NewUserRepository()
	profileRepo := repositories.NewProfileRepository()
	projectRepo := repositories.NewProjectRepository()
	jobRepo := repositories.NewJobRepository()
	reviewRepo := repositories.NewReviewRepository()
	trustRepo := repositories.NewTrustScoreRepository()
	verificationRepo := repositories.NewVerificationRepository()
	notificationRepo := repositories.NewNotificationRepository()

	trustService := services.NewTrustScoreService(
		jobRepo, reviewRepo, profileRepo, verificationRepo, trustRepo, userRepo, cfg.Scoring)

	dispatcher := workers.NewDispatcher(gormDB, trustService, cfg.Dispatcher.QueueSize, cfg.Dispatcher.Workers)

	notificationService := services.NewNotificationService(notificationRepo, userRepo, emailProvider)

	authService := services.NewAuthService(userRepo, profileRepo, cfg)
	projectService := services.NewProjectService(projectRepo, profileRepo)
	jobService := services.NewJobService(jobRepo, projectRepo, dispatcher, notificationService)
	reviewService := services.NewReviewService(reviewRepo, jobRepo, projectRepo, profileRepo, dispatcher, notificationService)
	verificationService := services.NewVerificationService(verificationRepo, dispatcher)

	return &services.ServiceContainer{
		AuthService:         authService,
		ProjectService:      projectService,
		JobService:          jobService,
		ReviewService:       reviewService,
		TrustScoreService:   trustService,
		VerificationService: verificationService,
		NotificationService: notificationService,
	}, dispatcher
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		Auth:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		Project:      handlers.NewProjectHandler(baseHandler, container.ProjectService),
		Job:          handlers.NewJobHandler(baseHandler, container.JobService),
		Review:       handlers.NewReviewHandler(baseHandler, container.ReviewService),
		Trust:        handlers.NewTrustHandler(baseHandler, container.TrustScoreService, container.VerificationService),
		Notification: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: string(hashedPassword),
		Name:         "Platform Administrator",
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
