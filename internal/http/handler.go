package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deltahost/portal-service/internal/models"
	"github.com/deltahost/portal-service/internal/repository"
	"github.com/deltahost/portal-service/internal/service"
	"github.com/deltahost/portal-service/internal/storage"
)

type Handler struct {
	authService    *service.AuthService
	catalogService *service.CatalogService
	orderService   *service.OrderService
	serverService  *service.ServerService
	ticketService  *service.TicketService
}

func NewHandler(authService *service.AuthService, catalogService *service.CatalogService, orderService *service.OrderService, serverService *service.ServerService, ticketService *service.TicketService) *Handler {
	return &Handler{
		authService:    authService,
		catalogService: catalogService,
		orderService:   orderService,
		serverService:  serverService,
		ticketService:  ticketService,
	}
}

// ==================== Public Handlers ====================

// Register creates a customer account
// POST /api/v1/public/register
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates a customer
// POST /api/v1/public/login
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetLocations returns active catalog locations
// GET /api/v1/public/locations
func (h *Handler) GetLocations(c *gin.Context) {
	locations, err := h.catalogService.ListLocations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// GetPlans returns both plan tiers for a location
// GET /api/v1/public/locations/:code/plans?currency=USD
func (h *Handler) GetPlans(c *gin.Context) {
	code := c.Param("code")
	displayCurrency := c.Query("currency")

	catalog, err := h.catalogService.GetCatalog(c.Request.Context(), code, displayCurrency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, catalog)
}

// GetPaymentMethods returns checkout payment destinations
// GET /api/v1/public/payment-methods
func (h *Handler) GetPaymentMethods(c *gin.Context) {
	methods, err := h.catalogService.ListPaymentMethods(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

// ==================== Customer Handlers ====================

// GetProfile returns the authenticated customer's account
// GET /api/v1/my/profile
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.authService.GetUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// SubmitOrder records a pending order with its payment screenshot
// POST /api/v1/my/orders (multipart)
func (h *Handler) SubmitOrder(c *gin.Context) {
	var req models.SubmitOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	screenshot, contentType, err := readFormImage(c, "screenshot")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderService.Submit(c.Request.Context(), c.GetString("userID"), &req, screenshot, contentType)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ListMyOrders returns the customer's orders
// GET /api/v1/my/orders
func (h *Handler) ListMyOrders(c *gin.Context) {
	orders, err := h.orderService.ListMine(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// ListMyServers returns the customer's servers with panel credentials
// GET /api/v1/my/servers
func (h *Handler) ListMyServers(c *gin.Context) {
	servers, err := h.serverService.ListMine(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"servers": servers})
}

// CreateTicket opens a support ticket
// POST /api/v1/my/tickets
func (h *Handler) CreateTicket(c *gin.Context) {
	var req models.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.ticketService.Create(c.Request.Context(), c.GetString("userID"), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserBanned) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// ListMyTickets returns the customer's tickets
// GET /api/v1/my/tickets
func (h *Handler) ListMyTickets(c *gin.Context) {
	tickets, err := h.ticketService.ListMine(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// GetTicketMessages returns a ticket thread after an ownership check
// GET /api/v1/my/tickets/:id/messages
func (h *Handler) GetTicketMessages(c *gin.Context) {
	ticketID := c.Param("id")

	if !h.requireTicketOwner(c, ticketID) {
		return
	}

	messages, err := h.ticketService.GetMessages(c.Request.Context(), ticketID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendTicketMessage appends a customer message with text and/or an image
// POST /api/v1/my/tickets/:id/messages (multipart)
func (h *Handler) SendTicketMessage(c *gin.Context) {
	ticketID := c.Param("id")

	if !h.requireTicketOwner(c, ticketID) {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	text := c.PostForm("message")
	image, contentType, err := readOptionalFormImage(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.ticketService.SendMessage(c.Request.Context(), ticketID, models.SenderCustomer, user.Name, text, image, contentType)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) || errors.Is(err, storage.ErrTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// CloseTicket closes the customer's own ticket
// POST /api/v1/my/tickets/:id/close
func (h *Handler) CloseTicket(c *gin.Context) {
	err := h.ticketService.CloseMine(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		writeTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.TicketStatusClosed})
}

// ==================== helpers ====================

// requireTicketOwner verifies the ticket belongs to the authenticated user and
// writes the error response when it does not
func (h *Handler) requireTicketOwner(c *gin.Context, ticketID string) bool {
	_, err := h.ticketService.GetForUser(c.Request.Context(), ticketID, c.GetString("userID"))
	if err != nil {
		writeTicketError(c, err)
		return false
	}
	return true
}

func writeTicketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
	case errors.Is(err, service.ErrNotTicketOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "ticket belongs to another user"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTransactionIDRequired),
		errors.Is(err, service.ErrScreenshotRequired),
		errors.Is(err, service.ErrPanelFieldsRequired),
		errors.Is(err, storage.ErrTooLarge),
		errors.Is(err, storage.ErrNotImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserBanned):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// readFormImage reads a required multipart image, enforcing the upload cap
// before buffering the whole file
func readFormImage(c *gin.Context, field string) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", errors.New(field + " file is required")
	}
	return bufferFormImage(fileHeader)
}

// readOptionalFormImage is readFormImage for fields that may be absent
func readOptionalFormImage(c *gin.Context, field string) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", nil
	}
	return bufferFormImage(fileHeader)
}

func bufferFormImage(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	if fileHeader.Size > storage.MaxUploadBytes {
		return nil, "", storage.ErrTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxUploadBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > storage.MaxUploadBytes {
		return nil, "", storage.ErrTooLarge
	}

	return data, fileHeader.Header.Get("Content-Type"), nil
}
