package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deltahost/portal-service/internal/models"
)

// ErrTicketIDTaken is returned when the generated display code collides with
// an existing row; the service retries with a fresh code.
var ErrTicketIDTaken = errors.New("ticket id already exists")

type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

const ticketColumns = `id, ticket_id, user_id, name, email, subject, status, priority, created_at, updated_at`
const messageColumns = `id, ticket_id, sender_type, sender_name, message, image_url, created_at`

// Create inserts a new ticket. The UNIQUE constraint on ticket_id surfaces
// display-code collisions as ErrTicketIDTaken.
func (r *TicketRepository) Create(ctx context.Context, ticket *models.SupportTicket) error {
	query := `
		INSERT INTO portal.support_tickets (id, ticket_id, user_id, name, email, subject, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		ticket.ID, ticket.TicketID, ticket.UserID, ticket.Name, ticket.Email,
		ticket.Subject, ticket.Status, ticket.Priority,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrTicketIDTaken
		}
		return fmt.Errorf("insert ticket: %w", err)
	}

	return nil
}

// GetByID retrieves a ticket by ID
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.SupportTicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM portal.support_tickets WHERE id = $1`, ticketColumns)
	return r.scanTicket(r.pool.QueryRow(ctx, query, id))
}

// GetByUserID retrieves a user's tickets, most recently updated first
func (r *TicketRepository) GetByUserID(ctx context.Context, userID string) ([]*models.SupportTicket, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM portal.support_tickets
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, ticketColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	return r.scanTickets(rows)
}

// GetAll retrieves all tickets, optionally filtered by status, most recently
// updated first (admin view)
func (r *TicketRepository) GetAll(ctx context.Context, status string) ([]*models.SupportTicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM portal.support_tickets ORDER BY updated_at DESC`, ticketColumns)
	args := []interface{}{}
	if status != "" {
		query = fmt.Sprintf(`SELECT %s FROM portal.support_tickets WHERE status = $1 ORDER BY updated_at DESC`, ticketColumns)
		args = append(args, status)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	return r.scanTickets(rows)
}

// UpdateStatus sets the ticket status
func (r *TicketRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE portal.support_tickets SET status = $1, updated_at = now()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMessage appends a message and bumps the ticket's updated_at in one
// transaction
func (r *TicketRepository) AddMessage(ctx context.Context, msg *models.TicketMessage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO portal.ticket_messages (id, ticket_id, sender_type, sender_name, message, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, msg.ID, msg.TicketID, msg.SenderType, msg.SenderName, msg.Message, msg.ImageURL)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE portal.support_tickets SET updated_at = now() WHERE id = $1
	`, msg.TicketID)
	if err != nil {
		return fmt.Errorf("bump ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ticket missing: %w", ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetMessages retrieves a ticket's messages in chronological order
func (r *TicketRepository) GetMessages(ctx context.Context, ticketID string) ([]*models.TicketMessage, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM portal.ticket_messages
		WHERE ticket_id = $1
		ORDER BY created_at ASC
	`, messageColumns)

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.TicketMessage
	for rows.Next() {
		msg := &models.TicketMessage{}
		err := rows.Scan(
			&msg.ID, &msg.TicketID, &msg.SenderType, &msg.SenderName,
			&msg.Message, &msg.ImageURL, &msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *TicketRepository) scanTicket(row pgx.Row) (*models.SupportTicket, error) {
	ticket := &models.SupportTicket{}
	err := row.Scan(
		&ticket.ID, &ticket.TicketID, &ticket.UserID, &ticket.Name, &ticket.Email,
		&ticket.Subject, &ticket.Status, &ticket.Priority, &ticket.CreatedAt, &ticket.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan ticket: %w", err)
	}
	return ticket, nil
}

func (r *TicketRepository) scanTickets(rows pgx.Rows) ([]*models.SupportTicket, error) {
	var tickets []*models.SupportTicket
	for rows.Next() {
		ticket := &models.SupportTicket{}
		err := rows.Scan(
			&ticket.ID, &ticket.TicketID, &ticket.UserID, &ticket.Name, &ticket.Email,
			&ticket.Subject, &ticket.Status, &ticket.Priority, &ticket.CreatedAt, &ticket.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}
