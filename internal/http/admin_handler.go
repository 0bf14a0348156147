package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/deltahost/portal-service/internal/models"
	"github.com/deltahost/portal-service/internal/repository"
	"github.com/deltahost/portal-service/internal/service"
)

// AdminLogin exchanges the access code for a 24h admin token
// POST /api/admin/login
func (h *Handler) AdminLogin(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.AdminLogin(req.AccessCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccessCodeRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "access code is required"})
		case errors.Is(err, service.ErrInvalidAccessCode):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AdminLogout revokes the presented admin token
// POST /api/admin/logout
func (h *Handler) AdminLogout(c *gin.Context) {
	h.authService.AdminLogout(c.GetString("adminToken"))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ==================== Plan CRUD ====================

// ListPlans returns every plan in a tier
// GET /api/admin/plans/:tier
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.catalogService.ListPlans(c.Request.Context(), c.Param("tier"))
	if err != nil {
		writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// CreatePlan adds a plan to a tier
// POST /api/admin/plans/:tier
func (h *Handler) CreatePlan(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.catalogService.CreatePlan(c.Request.Context(), c.Param("tier"), &req)
	if err != nil {
		writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// UpdatePlan replaces a plan's fields
// PUT /api/admin/plans/:tier/:id
func (h *Handler) UpdatePlan(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.catalogService.UpdatePlan(c.Request.Context(), c.Param("tier"), c.Param("id"), &req)
	if err != nil {
		writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// DeletePlan removes a plan
// DELETE /api/admin/plans/:tier/:id
func (h *Handler) DeletePlan(c *gin.Context) {
	if err := h.catalogService.DeletePlan(c.Request.Context(), c.Param("tier"), c.Param("id")); err != nil {
		writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ==================== Location CRUD ====================

// ListAllLocations returns every location including inactive ones
// GET /api/admin/locations
func (h *Handler) ListAllLocations(c *gin.Context) {
	locations, err := h.catalogService.ListAllLocations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// CreateLocation adds a catalog location
// POST /api/admin/locations
func (h *Handler) CreateLocation(c *gin.Context) {
	var req models.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc, err := h.catalogService.CreateLocation(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, loc)
}

// UpdateLocation replaces a location's fields
// PUT /api/admin/locations/:id
func (h *Handler) UpdateLocation(c *gin.Context) {
	var req models.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.catalogService.UpdateLocation(c.Request.Context(), c.Param("id"), &req); err != nil {
		writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// DeleteLocation removes a location
// DELETE /api/admin/locations/:id
func (h *Handler) DeleteLocation(c *gin.Context) {
	if err := h.catalogService.DeleteLocation(c.Request.Context(), c.Param("id")); err != nil {
		writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ==================== Payment Method CRUD ====================

// CreatePaymentMethod adds a payment destination with an optional QR image
// POST /api/admin/payment-methods (multipart)
func (h *Handler) CreatePaymentMethod(c *gin.Context) {
	var req models.PaymentMethodRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	qrImage, contentType, err := readOptionalFormImage(c, "qr_code")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pm, err := h.catalogService.CreatePaymentMethod(c.Request.Context(), &req, qrImage, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, pm)
}

// UpdatePaymentMethod replaces a payment method's fields
// PUT /api/admin/payment-methods/:id (multipart)
func (h *Handler) UpdatePaymentMethod(c *gin.Context) {
	var req models.PaymentMethodRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	qrImage, contentType, err := readOptionalFormImage(c, "qr_code")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pm, err := h.catalogService.UpdatePaymentMethod(c.Request.Context(), c.Param("id"), &req, qrImage, contentType)
	if err != nil {
		writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, pm)
}

// DeletePaymentMethod removes a payment destination
// DELETE /api/admin/payment-methods/:id
func (h *Handler) DeletePaymentMethod(c *gin.Context) {
	if err := h.catalogService.DeletePaymentMethod(c.Request.Context(), c.Param("id")); err != nil {
		writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ==================== Order Review ====================

// ListOrders returns every order, optionally filtered by status
// GET /api/admin/orders?status=pending
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// ApproveOrder writes panel credentials and creates the server
// POST /api/admin/orders/:id/approve
func (h *Handler) ApproveOrder(c *gin.Context) {
	var req models.ApproveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	server, err := h.orderService.Approve(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusConflict, gin.H{"error": "order not found or not pending"})
			return
		}
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, server)
}

// RejectOrder flips a pending order to rejected
// POST /api/admin/orders/:id/reject
func (h *Handler) RejectOrder(c *gin.Context) {
	var req models.RejectOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orderService.Reject(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusConflict, gin.H{"error": "order not found or not pending"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.OrderStatusRejected})
}

// ==================== Server Management ====================

// ListServers returns every server, optionally filtered by status
// GET /api/admin/servers?status=active
func (h *Handler) ListServers(c *gin.Context) {
	servers, err := h.serverService.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"servers": servers})
}

// SuspendServer suspends a server with an optional reason
// POST /api/admin/servers/:id/suspend
func (h *Handler) SuspendServer(c *gin.Context) {
	var req models.SuspendServerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !strings.Contains(err.Error(), "EOF") {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.serverService.Suspend(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		writeServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.ServerStatusSuspended})
}

// MarkServerForRenewal flags a server whose paid month has lapsed
// POST /api/admin/servers/:id/renewal
func (h *Handler) MarkServerForRenewal(c *gin.Context) {
	if err := h.serverService.MarkForRenewal(c.Request.Context(), c.Param("id")); err != nil {
		writeServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.ServerStatusRenewalRequired})
}

// ReactivateServer returns a server to active and extends its expiry
// POST /api/admin/servers/:id/reactivate
func (h *Handler) ReactivateServer(c *gin.Context) {
	if err := h.serverService.Reactivate(c.Request.Context(), c.Param("id")); err != nil {
		writeServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.ServerStatusActive})
}

// DeleteServer removes a server row
// DELETE /api/admin/servers/:id
func (h *Handler) DeleteServer(c *gin.Context) {
	if err := h.serverService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ==================== User Management ====================

// ListUsers returns every customer account
// GET /api/admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// BanUser sets the ban flag with an optional reason
// POST /api/admin/users/:id/ban
func (h *Handler) BanUser(c *gin.Context) {
	var req models.BanUserRequest
	if err := c.ShouldBindJSON(&req); err != nil && !strings.Contains(err.Error(), "EOF") {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.BanUser(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		writeUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "banned"})
}

// UnbanUser clears the ban flag and reason
// POST /api/admin/users/:id/unban
func (h *Handler) UnbanUser(c *gin.Context) {
	if err := h.authService.UnbanUser(c.Request.Context(), c.Param("id")); err != nil {
		writeUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unbanned"})
}

// ==================== Ticket Management ====================

// ListTickets returns every ticket, optionally filtered by status
// GET /api/admin/tickets?status=open
func (h *Handler) ListTickets(c *gin.Context) {
	tickets, err := h.ticketService.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// UpdateTicketStatus sets any of the four ticket states
// PUT /api/admin/tickets/:id/status
func (h *Handler) UpdateTicketStatus(c *gin.Context) {
	var req models.UpdateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ticketService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, service.ErrInvalidTicketStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		writeTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// GetAdminTicketMessages returns a ticket thread without an ownership check
// GET /api/admin/tickets/:id/messages
func (h *Handler) GetAdminTicketMessages(c *gin.Context) {
	messages, err := h.ticketService.GetMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendAdminTicketMessage appends a support-side reply
// POST /api/admin/tickets/:id/messages (multipart)
func (h *Handler) SendAdminTicketMessage(c *gin.Context) {
	text := c.PostForm("message")
	image, contentType, err := readOptionalFormImage(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.ticketService.SendMessage(c.Request.Context(), c.Param("id"), models.SenderAdmin, "Support", text, image, contentType)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// ==================== helpers ====================

func writeCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownPlanTier):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func writeServerError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "server not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func writeUserError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
