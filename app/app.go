package app

import (
	"bankdash-api/config"
	"bankdash-api/db"
	"bankdash-api/handler"
	"bankdash-api/logger"
	"bankdash-api/mailer"
	"bankdash-api/repository"
	"bankdash-api/router"
	"bankdash-api/service"
	"bankdash-api/watcher"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---

	userRepo := repository.NewUserRepository(database)
	accountRepo := repository.NewAccountRepository(database)
	transactionRepo := repository.NewTransactionRepository(database)
	otpRepo := repository.NewOTPRepository(database)

	otpMailer := mailer.NewSender(&config.AppConfig)

	noticeService := service.NewNoticeService(redisClient)
	authService := service.NewAuthService(userRepo, accountRepo)
	accountService := service.NewAccountService(accountRepo, redisClient)
	otpService := service.NewOTPService(database, otpRepo)
	transferService := service.NewTransferService(database, accountRepo, transactionRepo, userRepo, otpService, otpMailer, redisClient, noticeService)
	approvalService := service.NewApprovalService(database, transactionRepo, accountRepo, redisClient, noticeService)
	userService := service.NewUserService(userRepo, accountRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userRepo)
	accountHandler := handler.NewAccountHandler(accountService, approvalService)
	transferHandler := handler.NewTransferHandler(transferService)
	adminHandler := handler.NewAdminHandler(approvalService, userService, noticeService)

	r := router.NewRouter(userRepo, authHandler, userHandler, accountHandler, transferHandler, adminHandler)

	// --- Background Balance Watcher ---
	balanceWatcher := watcher.New(accountRepo, redisClient, noticeService, config.AppConfig.Watcher.IntervalSeconds)
	if err := balanceWatcher.Start(); err != nil {
		logger.Log.Fatalf("Failed to start balance watcher: %v", err)
	}

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	balanceWatcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
