package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deltahost/portal-service/internal/auth"
	"github.com/deltahost/portal-service/internal/config"
	"github.com/deltahost/portal-service/internal/realtime"
	"github.com/deltahost/portal-service/internal/service"
)

type Server struct {
	router      *gin.Engine
	handler     *Handler
	wsHandler   *WSHandler
	cfg         *config.Config
	db          *pgxpool.Pool
	adminTokens *auth.AdminTokenStore
}

// Global limiter: 60 requests per user (or IP) per minute
var userRateLimiter = NewRateLimiter(60, time.Minute)

// Order submission limiter: 10 per user per hour, enough for retries
var orderRateLimiter = NewRateLimiter(10, time.Hour)

// Admin login limiter: 10 attempts per IP per hour
var adminLoginRateLimiter = NewRateLimiter(10, time.Hour)

func NewServer(cfg *config.Config, db *pgxpool.Pool, adminTokens *auth.AdminTokenStore, hub *realtime.Hub,
	authService *service.AuthService, catalogService *service.CatalogService, orderService *service.OrderService,
	serverService *service.ServerService, ticketService *service.TicketService) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router:      router,
		handler:     NewHandler(authService, catalogService, orderService, serverService, ticketService),
		wsHandler:   NewWSHandler(hub, ticketService),
		cfg:         cfg,
		db:          db,
		adminTokens: adminTokens,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "portal-service",
		})
	})

	// Public API - no authentication required
	public := s.router.Group("/api/v1/public")
	public.Use(RateLimitMiddleware(userRateLimiter))
	{
		public.POST("/register", s.handler.Register)
		public.POST("/login", s.handler.Login)

		public.GET("/locations", s.handler.GetLocations)
		public.GET("/locations/:code/plans", s.handler.GetPlans)
		public.GET("/payment-methods", s.handler.GetPaymentMethods)
	}

	// Customer API - requires JWT authentication
	my := s.router.Group("/api/v1/my")
	my.Use(JWTAuthMiddleware(s.cfg.JWT.SecretKey))
	my.Use(RateLimitMiddleware(userRateLimiter))
	{
		my.GET("/profile", s.handler.GetProfile)

		// Order submission uses the stricter limiter
		my.POST("/orders", RateLimitMiddleware(orderRateLimiter), s.handler.SubmitOrder)
		my.GET("/orders", s.handler.ListMyOrders)

		my.GET("/servers", s.handler.ListMyServers)

		my.POST("/tickets", s.handler.CreateTicket)
		my.GET("/tickets", s.handler.ListMyTickets)
		my.GET("/tickets/:id/messages", s.handler.GetTicketMessages)
		my.POST("/tickets/:id/messages", s.handler.SendTicketMessage)
		my.POST("/tickets/:id/close", s.handler.CloseTicket)
		my.GET("/tickets/:id/stream", s.wsHandler.StreamTicket)
	}

	// Admin login sits outside the token gate
	s.router.POST("/api/admin/login", RateLimitMiddleware(adminLoginRateLimiter), s.handler.AdminLogin)

	// Admin API - requires a token from the access-code login
	admin := s.router.Group("/api/admin")
	admin.Use(AdminAuthMiddleware(s.adminTokens))
	{
		admin.POST("/logout", s.handler.AdminLogout)

		// Catalog CRUD
		admin.GET("/plans/:tier", s.handler.ListPlans)
		admin.POST("/plans/:tier", s.handler.CreatePlan)
		admin.PUT("/plans/:tier/:id", s.handler.UpdatePlan)
		admin.DELETE("/plans/:tier/:id", s.handler.DeletePlan)

		admin.GET("/locations", s.handler.ListAllLocations)
		admin.POST("/locations", s.handler.CreateLocation)
		admin.PUT("/locations/:id", s.handler.UpdateLocation)
		admin.DELETE("/locations/:id", s.handler.DeleteLocation)

		admin.POST("/payment-methods", s.handler.CreatePaymentMethod)
		admin.PUT("/payment-methods/:id", s.handler.UpdatePaymentMethod)
		admin.DELETE("/payment-methods/:id", s.handler.DeletePaymentMethod)

		// Order review
		admin.GET("/orders", s.handler.ListOrders)
		admin.POST("/orders/:id/approve", s.handler.ApproveOrder)
		admin.POST("/orders/:id/reject", s.handler.RejectOrder)

		// Server management
		admin.GET("/servers", s.handler.ListServers)
		admin.POST("/servers/:id/suspend", s.handler.SuspendServer)
		admin.POST("/servers/:id/renewal", s.handler.MarkServerForRenewal)
		admin.POST("/servers/:id/reactivate", s.handler.ReactivateServer)
		admin.DELETE("/servers/:id", s.handler.DeleteServer)

		// User management
		admin.GET("/users", s.handler.ListUsers)
		admin.POST("/users/:id/ban", s.handler.BanUser)
		admin.POST("/users/:id/unban", s.handler.UnbanUser)

		// Ticket management
		admin.GET("/tickets", s.handler.ListTickets)
		admin.PUT("/tickets/:id/status", s.handler.UpdateTicketStatus)
		admin.GET("/tickets/:id/messages", s.handler.GetAdminTicketMessages)
		admin.POST("/tickets/:id/messages", s.handler.SendAdminTicketMessage)

		// DB Browser API (generic table browsing)
		dbAdminHandler := NewDBAdminHandler(s.db, "portal")
		dbAdmin := admin.Group("/db")
		{
			dbAdmin.GET("/tables", dbAdminHandler.ListTables)
			dbAdmin.GET("/tables/:table/schema", dbAdminHandler.GetTableSchema)
			dbAdmin.GET("/tables/:table/rows", dbAdminHandler.QueryRows)
		}
	}
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
