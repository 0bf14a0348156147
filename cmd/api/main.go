package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/deltahost/portal-service/internal/auth"
	"github.com/deltahost/portal-service/internal/config"
	"github.com/deltahost/portal-service/internal/db"
	"github.com/deltahost/portal-service/internal/http"
	"github.com/deltahost/portal-service/internal/realtime"
	"github.com/deltahost/portal-service/internal/repository"
	"github.com/deltahost/portal-service/internal/service"
	"github.com/deltahost/portal-service/internal/storage"
)

func main() {
	log.Println("Starting Portal Service...")

	// Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	pool, err := db.NewPool(cfg.Database.DSN(), cfg.Database.Schema)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Initialize repositories
	locationRepo := repository.NewLocationRepository(pool)
	standardPlanRepo := repository.NewPlanRepository(pool, repository.TableHostingPlans)
	epycPlanRepo := repository.NewPlanRepository(pool, repository.TableEpycPlans)
	paymentRepo := repository.NewPaymentMethodRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	serverRepo := repository.NewServerRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)

	// Initialize image storage
	uploader, err := storage.NewUploader(cfg.S3)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Admin tokens live in memory; a restart logs all admins out
	adminTokens := auth.NewAdminTokenStore()

	// Realtime ticket message hub
	hub := realtime.NewHub()

	// Initialize services
	authService := service.NewAuthService(cfg, userRepo, auditRepo, adminTokens)
	catalogService := service.NewCatalogService(locationRepo, standardPlanRepo, epycPlanRepo, paymentRepo, uploader, auditRepo)
	orderService := service.NewOrderService(orderRepo, userRepo, uploader, auditRepo)
	serverService := service.NewServerService(serverRepo, auditRepo)
	ticketService := service.NewTicketService(ticketRepo, userRepo, uploader, hub, auditRepo)

	// Initialize HTTP server
	server := http.NewServer(cfg, pool, adminTokens, hub,
		authService, catalogService, orderService, serverService, ticketService)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("Server starting on %s", addr)
		if err := server.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	log.Println("Server exited")
}
