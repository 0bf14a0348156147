package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deltahost/portal-service/internal/models"
	"github.com/deltahost/portal-service/internal/repository"
	"github.com/deltahost/portal-service/internal/storage"
)

var (
	ErrEmptyMessage        = errors.New("message text or image is required")
	ErrInvalidTicketStatus = errors.New("invalid ticket status")
	ErrNotTicketOwner      = errors.New("ticket belongs to another user")
)

// ticketIDAttempts bounds the display-code retry loop; five random codes
// colliding in a 100000-slot space means something else is wrong
const ticketIDAttempts = 5

// TicketStore is the slice of the ticket repository the service needs
type TicketStore interface {
	Create(ctx context.Context, ticket *models.SupportTicket) error
	GetByID(ctx context.Context, id string) (*models.SupportTicket, error)
	GetByUserID(ctx context.Context, userID string) ([]*models.SupportTicket, error)
	GetAll(ctx context.Context, status string) ([]*models.SupportTicket, error)
	UpdateStatus(ctx context.Context, id, status string) error
	AddMessage(ctx context.Context, msg *models.TicketMessage) error
	GetMessages(ctx context.Context, ticketID string) ([]*models.TicketMessage, error)
}

// MessagePublisher fans a new message out to live subscribers
type MessagePublisher interface {
	Publish(ticketID string, msg *models.MessageInfo)
}

// TicketService handles the support chat for customers and admins
type TicketService struct {
	ticketRepo TicketStore
	userRepo   UserStore
	uploader   ImageUploader
	publisher  MessagePublisher
	auditRepo  AuditLogger
}

func NewTicketService(ticketRepo TicketStore, userRepo UserStore, uploader ImageUploader, publisher MessagePublisher, auditRepo AuditLogger) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		uploader:   uploader,
		publisher:  publisher,
		auditRepo:  auditRepo,
	}
}

// Create opens a new ticket. Display codes are DH-NNNNN; collisions with the
// unique constraint are retried with a fresh code.
func (s *TicketService) Create(ctx context.Context, userID string, req *models.CreateTicketRequest) (*models.TicketInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.IsBanned {
		return nil, bannedError(user)
	}

	priority := req.Priority
	switch priority {
	case models.TicketPriorityLow, models.TicketPriorityMedium, models.TicketPriorityHigh:
	default:
		priority = models.TicketPriorityMedium
	}

	ticket := &models.SupportTicket{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Subject:  req.Subject,
		Status:   models.TicketStatusOpen,
		Priority: priority,
	}

	for attempt := 0; ; attempt++ {
		ticket.TicketID = fmt.Sprintf("DH-%05d", rand.IntN(100000))
		err := s.ticketRepo.Create(ctx, ticket)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrTicketIDTaken) || attempt >= ticketIDAttempts-1 {
			return nil, fmt.Errorf("create ticket: %w", err)
		}
	}

	log.Printf("[Ticket] Created ticket %s for user %s", ticket.TicketID, user.ID)
	return buildTicketInfo(ticket), nil
}

// ListMine returns the customer's tickets, most recently updated first
func (s *TicketService) ListMine(ctx context.Context, userID string) ([]models.TicketInfo, error) {
	tickets, err := s.ticketRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return buildTicketInfos(tickets), nil
}

// ListAll returns every ticket, optionally filtered by status (admin view)
func (s *TicketService) ListAll(ctx context.Context, status string) ([]models.TicketInfo, error) {
	tickets, err := s.ticketRepo.GetAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return buildTicketInfos(tickets), nil
}

// GetForUser returns a ticket after verifying ownership
func (s *TicketService) GetForUser(ctx context.Context, ticketID, userID string) (*models.TicketInfo, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != userID {
		return nil, ErrNotTicketOwner
	}
	return buildTicketInfo(ticket), nil
}

// GetMessages returns a ticket's messages in chronological order
func (s *TicketService) GetMessages(ctx context.Context, ticketID string) ([]models.MessageInfo, error) {
	messages, err := s.ticketRepo.GetMessages(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	infos := make([]models.MessageInfo, 0, len(messages))
	for _, msg := range messages {
		infos = append(infos, *buildMessageInfo(msg))
	}
	return infos, nil
}

// SendMessage appends a message with text and/or an image. Neither present is
// a validation error; nothing is written.
func (s *TicketService) SendMessage(ctx context.Context, ticketID, senderType, senderName, text string, image []byte, contentType string) (*models.MessageInfo, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(image) == 0 {
		return nil, ErrEmptyMessage
	}
	if len(image) > storage.MaxUploadBytes {
		return nil, storage.ErrTooLarge
	}

	msg := &models.TicketMessage{
		ID:         uuid.New().String(),
		TicketID:   ticketID,
		SenderType: senderType,
		SenderName: senderName,
		CreatedAt:  time.Now(),
	}
	if text != "" {
		msg.Message = &text
	}

	if len(image) > 0 {
		imageURL, err := s.uploader.Upload(ctx, storage.FolderTickets, image, contentType)
		if err != nil {
			return nil, fmt.Errorf("upload attachment: %w", err)
		}
		msg.ImageURL = &imageURL
	}

	if err := s.ticketRepo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}

	info := buildMessageInfo(msg)
	s.publisher.Publish(ticketID, info)
	return info, nil
}

// UpdateStatus sets any of the four states (admin action)
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID, status string) error {
	if !models.ValidTicketStatus(status) {
		return ErrInvalidTicketStatus
	}

	if err := s.ticketRepo.UpdateStatus(ctx, ticketID, status); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, "ticket", ticketID, "status", "ok", status)
	return nil
}

// CloseMine closes a ticket on behalf of its owner. Closing is the only
// transition customers get, and there is no reopen path.
func (s *TicketService) CloseMine(ctx context.Context, ticketID, userID string) error {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket.UserID != userID {
		return ErrNotTicketOwner
	}

	return s.ticketRepo.UpdateStatus(ctx, ticketID, models.TicketStatusClosed)
}

// MergeMessages combines a polled snapshot with streamed inserts,
// deduplicating by message id and keeping chronological order. Used wherever
// the two delivery paths overlap.
func MergeMessages(existing, incoming []models.MessageInfo) []models.MessageInfo {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]models.MessageInfo, 0, len(existing)+len(incoming))

	for _, msg := range existing {
		if _, ok := seen[msg.ID]; ok {
			continue
		}
		seen[msg.ID] = struct{}{}
		merged = append(merged, msg)
	}
	for _, msg := range incoming {
		if _, ok := seen[msg.ID]; ok {
			continue
		}
		seen[msg.ID] = struct{}{}
		merged = append(merged, msg)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt < merged[j].CreatedAt
	})
	return merged
}

func buildTicketInfo(ticket *models.SupportTicket) *models.TicketInfo {
	return &models.TicketInfo{
		ID:        ticket.ID,
		TicketID:  ticket.TicketID,
		UserID:    ticket.UserID,
		Name:      ticket.Name,
		Email:     ticket.Email,
		Subject:   ticket.Subject,
		Status:    ticket.Status,
		Priority:  ticket.Priority,
		CreatedAt: ticket.CreatedAt.Format(time.RFC3339),
		UpdatedAt: ticket.UpdatedAt.Format(time.RFC3339),
	}
}

func buildTicketInfos(tickets []*models.SupportTicket) []models.TicketInfo {
	infos := make([]models.TicketInfo, 0, len(tickets))
	for _, ticket := range tickets {
		infos = append(infos, *buildTicketInfo(ticket))
	}
	return infos
}

func buildMessageInfo(msg *models.TicketMessage) *models.MessageInfo {
	return &models.MessageInfo{
		ID:         msg.ID,
		TicketID:   msg.TicketID,
		SenderType: msg.SenderType,
		SenderName: msg.SenderName,
		Message:    msg.Message,
		ImageURL:   msg.ImageURL,
		CreatedAt:  msg.CreatedAt.Format(time.RFC3339),
	}
}
