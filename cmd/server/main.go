package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lpg-backend/internal/auth"
	"lpg-backend/internal/cache"
	"lpg-backend/internal/config"
	"lpg-backend/internal/database"
	"lpg-backend/internal/db"
	"lpg-backend/internal/handlers"
	"lpg-backend/internal/health"
	h "lpg-backend/internal/http"
	"lpg-backend/internal/jobs"
	"lpg-backend/internal/middleware"
	"lpg-backend/internal/monitoring"
	"lpg-backend/internal/repositories"
	"lpg-backend/internal/services"
	"lpg-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	// Redis is optional; the server runs uncached without it
	if err := cache.Init(); err != nil {
		log.Printf("[Cache] Redis unavailable, running without cache: %v", err)
	} else {
		log.Println("[Cache] Redis connected")
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	// Repositories
	tenantRepo := repositories.NewTenantRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	ledgerRepo := repositories.NewLedgerRepository(pool)
	cylinderRepo := repositories.NewCylinderRepository(pool)
	handoverRepo := repositories.NewHandoverRepository(pool)
	walletRepo := repositories.NewWalletRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	compensationRepo := repositories.NewCompensationRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	procedureRepo := repositories.NewProcedureRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	uploader := storage.NewUploader(cfg)
	userService := services.NewUserService(userRepo, jwtManager)
	totpService := services.NewTOTPService(userRepo)
	customerService := services.NewCustomerService(customerRepo, ledgerRepo)
	reconciliationService := services.NewReconciliationService(customerRepo, ledgerRepo, cfg.Reconciliation.Tolerance)
	cylinderService := services.NewCylinderService(cylinderRepo)
	handoverService := services.NewHandoverService(handoverRepo, cylinderRepo, walletRepo, compensationRepo, procedureRepo)
	walletService := services.NewWalletService(walletRepo)
	deliveryService := services.NewDeliveryService(orderRepo, cylinderRepo, procedureRepo, uploader)
	razorpayService := services.NewRazorpayService(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, paymentRepo, customerService)
	reportService := services.NewReportService(ledgerRepo, reconciliationService)

	// Monitoring hub and background jobs
	hub := monitoring.NewHub(pool)
	go hub.Run()

	runner := jobs.NewRunner(tenantRepo, handoverRepo, compensationRepo, cylinderRepo,
		reconciliationService, hub, cfg.Reconciliation.CronSpec)
	if err := runner.Start(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	router := h.NewRouter(
		handlers.NewAuthHandler(userService, totpService),
		handlers.NewCustomerHandler(customerService),
		handlers.NewReconciliationHandler(reconciliationService),
		handlers.NewCylinderHandler(cylinderService),
		handlers.NewHandoverHandler(handoverService, walletService),
		handlers.NewOrderHandler(deliveryService),
		handlers.NewPaymentHandler(razorpayService),
		handlers.NewReportHandler(reportService),
		handlers.NewHealthHandler(health.NewHealthChecker(pool)),
		hub,
		authMiddleware,
	)

	var handler http.Handler = router
	handler = middleware.APILogging(handler)
	handler = middleware.MetricsMiddleware(handler)
	handler = middleware.NewCORS(cfg)(handler)
	handler = middleware.PanicRecovery(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	runner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
