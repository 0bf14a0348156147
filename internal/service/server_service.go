package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/deltahost/portal-service/internal/models"
)

// ServerStore is the slice of the server repository the service needs
type ServerStore interface {
	GetByID(ctx context.Context, id string) (*models.UserServer, error)
	GetByUserID(ctx context.Context, userID string) ([]*models.UserServer, error)
	GetAll(ctx context.Context, status string) ([]*models.UserServer, error)
	UpdateStatus(ctx context.Context, id, status string, reason *string) error
	Reactivate(ctx context.Context, id string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// ServerService handles the "my servers" view and admin server actions
type ServerService struct {
	serverRepo ServerStore
	auditRepo  AuditLogger
}

func NewServerService(serverRepo ServerStore, auditRepo AuditLogger) *ServerService {
	return &ServerService{serverRepo: serverRepo, auditRepo: auditRepo}
}

// ListMine returns the customer's servers with panel credentials
func (s *ServerService) ListMine(ctx context.Context, userID string) ([]models.ServerInfo, error) {
	servers, err := s.serverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	return buildServerInfos(servers), nil
}

// ListAll returns every server, optionally filtered by status (admin view)
func (s *ServerService) ListAll(ctx context.Context, status string) ([]models.ServerInfo, error) {
	servers, err := s.serverRepo.GetAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	return buildServerInfos(servers), nil
}

// Suspend moves a server to suspended with the supplied reason, defaulting to
// the canned admin reason
func (s *ServerService) Suspend(ctx context.Context, serverID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		reason = models.SuspendReasonDefault
	}

	if err := s.serverRepo.UpdateStatus(ctx, serverID, models.ServerStatusSuspended, &reason); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, "server", serverID, "suspend", "ok", reason)
	log.Printf("[Server] Suspended server %s: %s", serverID, reason)
	return nil
}

// MarkForRenewal flags a server whose paid month has lapsed
func (s *ServerService) MarkForRenewal(ctx context.Context, serverID string) error {
	reason := models.SuspendReasonRenewal
	if err := s.serverRepo.UpdateStatus(ctx, serverID, models.ServerStatusRenewalRequired, &reason); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, "server", serverID, "mark_renewal", "ok", reason)
	log.Printf("[Server] Marked server %s for renewal", serverID)
	return nil
}

// Reactivate returns a suspended or renewal-required server to active and
// extends expires_at by one paid period from the later of now and the prior
// expiry, so remaining time is never forfeited.
func (s *ServerService) Reactivate(ctx context.Context, serverID string) error {
	server, err := s.serverRepo.GetByID(ctx, serverID)
	if err != nil {
		return err
	}

	base := time.Now()
	if server.ExpiresAt != nil && server.ExpiresAt.After(base) {
		base = *server.ExpiresAt
	}
	expiresAt := base.Add(ServerLifetime)

	if err := s.serverRepo.Reactivate(ctx, serverID, expiresAt); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, "server", serverID, "reactivate", "ok",
		fmt.Sprintf("Extended to %s", expiresAt.Format(time.RFC3339)))
	log.Printf("[Server] Reactivated server %s until %s", serverID, expiresAt.Format(time.RFC3339))
	return nil
}

// Delete hard-deletes a server row
func (s *ServerService) Delete(ctx context.Context, serverID string) error {
	if err := s.serverRepo.Delete(ctx, serverID); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, "server", serverID, "delete", "ok", "")
	log.Printf("[Server] Deleted server %s", serverID)
	return nil
}

func buildServerInfo(server *models.UserServer) *models.ServerInfo {
	info := &models.ServerInfo{
		ID:               server.ID,
		ServerID:         server.ServerID,
		OrderID:          server.OrderID,
		UserID:           server.UserID,
		Name:             server.Name,
		Email:            server.Email,
		PlanName:         server.PlanName,
		PlanPrice:        server.PlanPrice,
		PlanRAM:          server.PlanRAM,
		Location:         server.Location,
		Processor:        server.Processor,
		PanelLink:        server.PanelLink,
		PanelPassword:    server.PanelPassword,
		PanelGmail:       server.PanelGmail,
		Status:           server.Status,
		SuspensionReason: server.SuspensionReason,
		CreatedAt:        server.CreatedAt.Format(time.RFC3339),
	}
	if server.ExpiresAt != nil {
		expires := server.ExpiresAt.Format(time.RFC3339)
		info.ExpiresAt = &expires
	}
	return info
}

func buildServerInfos(servers []*models.UserServer) []models.ServerInfo {
	infos := make([]models.ServerInfo, 0, len(servers))
	for _, server := range servers {
		infos = append(infos, *buildServerInfo(server))
	}
	return infos
}
