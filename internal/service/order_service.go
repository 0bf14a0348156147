package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deltahost/portal-service/internal/models"
	"github.com/deltahost/portal-service/internal/storage"
)

var (
	ErrTransactionIDRequired = errors.New("transaction id is required")
	ErrScreenshotRequired    = errors.New("payment screenshot is required")
	ErrPanelFieldsRequired   = errors.New("panel link, password and gmail are all required")
	ErrUserBanned            = errors.New("account is banned")
)

// ServerLifetime is the paid period granted on approval and added again on
// each reactivation
const ServerLifetime = 30 * 24 * time.Hour

// OrderStore is the slice of the order repository the service needs
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByUserID(ctx context.Context, userID string) ([]*models.Order, error)
	GetAll(ctx context.Context, status string) ([]*models.Order, error)
	ApproveWithServer(ctx context.Context, orderID string, creds *models.ApproveOrderRequest, server *models.UserServer) error
	Reject(ctx context.Context, orderID string, reason *string) error
}

// ImageUploader stores an image and returns its public URL
type ImageUploader interface {
	Upload(ctx context.Context, folder string, data []byte, contentType string) (string, error)
}

// OrderService handles order submission and the admin approval workflow
type OrderService struct {
	orderRepo OrderStore
	userRepo  UserStore
	uploader  ImageUploader
	auditRepo AuditLogger
}

func NewOrderService(orderRepo OrderStore, userRepo UserStore, uploader ImageUploader, auditRepo AuditLogger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		uploader:  uploader,
		auditRepo: auditRepo,
	}
}

// Submit validates and records a new pending order. Validation failures
// return before any storage or database call is made.
func (s *OrderService) Submit(ctx context.Context, userID string, req *models.SubmitOrderRequest, screenshot []byte, contentType string) (*models.OrderInfo, error) {
	if strings.TrimSpace(req.TransactionID) == "" {
		return nil, ErrTransactionIDRequired
	}
	if len(screenshot) == 0 {
		return nil, ErrScreenshotRequired
	}
	if len(screenshot) > storage.MaxUploadBytes {
		return nil, storage.ErrTooLarge
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.IsBanned {
		return nil, bannedError(user)
	}

	screenshotURL, err := s.uploader.Upload(ctx, storage.FolderScreenshots, screenshot, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload screenshot: %w", err)
	}

	txnID := strings.TrimSpace(req.TransactionID)
	order := &models.Order{
		ID:            uuid.New().String(),
		OrderID:       newDisplayCode("ORD"),
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		PlanName:      req.PlanName,
		PlanPrice:     req.PlanPrice,
		PlanRAM:       req.PlanRAM,
		Location:      req.Location,
		Processor:     req.Processor,
		PaymentMethod: req.PaymentMethod,
		TransactionID: &txnID,
		ScreenshotURL: &screenshotURL,
		Status:        models.OrderStatusPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		// The screenshot stays in the bucket; orphaned uploads are cheap and
		// cleaned up out of band
		return nil, fmt.Errorf("create order: %w", err)
	}

	log.Printf("[Order] Submitted order %s for user %s (%s)", order.OrderID, user.ID, req.PlanName)
	return buildOrderInfo(order), nil
}

// ListMine returns the customer's own orders
func (s *OrderService) ListMine(ctx context.Context, userID string) ([]models.OrderInfo, error) {
	orders, err := s.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return buildOrderInfos(orders), nil
}

// ListAll returns every order, optionally filtered by status (admin view)
func (s *OrderService) ListAll(ctx context.Context, status string) ([]models.OrderInfo, error) {
	orders, err := s.orderRepo.GetAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return buildOrderInfos(orders), nil
}

// Approve writes the panel credentials onto a pending order and creates the
// server row in the same transaction. The server snapshots the order's plan
// and user fields verbatim.
func (s *OrderService) Approve(ctx context.Context, orderID string, creds *models.ApproveOrderRequest) (*models.ServerInfo, error) {
	if strings.TrimSpace(creds.PanelLink) == "" ||
		strings.TrimSpace(creds.PanelPassword) == "" ||
		strings.TrimSpace(creds.PanelGmail) == "" {
		return nil, ErrPanelFieldsRequired
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	expiresAt := time.Now().Add(ServerLifetime)
	server := &models.UserServer{
		ID:            uuid.New().String(),
		ServerID:      newDisplayCode("SRV"),
		OrderID:       order.ID,
		UserID:        order.UserID,
		Name:          order.Name,
		Email:         order.Email,
		PlanName:      order.PlanName,
		PlanPrice:     order.PlanPrice,
		PlanRAM:       order.PlanRAM,
		Location:      order.Location,
		Processor:     order.Processor,
		PanelLink:     creds.PanelLink,
		PanelPassword: creds.PanelPassword,
		PanelGmail:    creds.PanelGmail,
		Status:        models.ServerStatusActive,
		ExpiresAt:     &expiresAt,
	}

	if err := s.orderRepo.ApproveWithServer(ctx, order.ID, creds, server); err != nil {
		return nil, err
	}

	_ = s.auditRepo.LogAction(ctx, "order", order.ID, "approve", "ok",
		fmt.Sprintf("Approved %s, server %s created", order.OrderID, server.ServerID))
	log.Printf("[Order] Approved order %s, server %s created", order.OrderID, server.ServerID)

	return buildServerInfo(server), nil
}

// Reject flips a pending order to rejected with an optional reason
func (s *OrderService) Reject(ctx context.Context, orderID, reason string) error {
	var reasonPtr *string
	if strings.TrimSpace(reason) != "" {
		reasonPtr = &reason
	}

	if err := s.orderRepo.Reject(ctx, orderID, reasonPtr); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, "order", orderID, "reject", "ok", reason)
	log.Printf("[Order] Rejected order %s", orderID)
	return nil
}

func bannedError(user *models.PortalUser) error {
	if user.BanReason != nil && *user.BanReason != "" {
		return fmt.Errorf("%w: %s", ErrUserBanned, *user.BanReason)
	}
	return ErrUserBanned
}

// newDisplayCode builds a short human-facing code like ORD-4F2A9C
func newDisplayCode(prefix string) string {
	id := uuid.New().String()
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(strings.ReplaceAll(id, "-", "")[:6]))
}

func buildOrderInfo(order *models.Order) *models.OrderInfo {
	return &models.OrderInfo{
		ID:            order.ID,
		OrderID:       order.OrderID,
		UserID:        order.UserID,
		Name:          order.Name,
		Email:         order.Email,
		PlanName:      order.PlanName,
		PlanPrice:     order.PlanPrice,
		PlanRAM:       order.PlanRAM,
		Location:      order.Location,
		Processor:     order.Processor,
		PaymentMethod: order.PaymentMethod,
		TransactionID: order.TransactionID,
		ScreenshotURL: order.ScreenshotURL,
		Status:        order.Status,
		RejectReason:  order.RejectReason,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}
}

func buildOrderInfos(orders []*models.Order) []models.OrderInfo {
	infos := make([]models.OrderInfo, 0, len(orders))
	for _, order := range orders {
		infos = append(infos, *buildOrderInfo(order))
	}
	return infos
}
