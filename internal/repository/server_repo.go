package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deltahost/portal-service/internal/models"
)

type ServerRepository struct {
	pool *pgxpool.Pool
}

func NewServerRepository(pool *pgxpool.Pool) *ServerRepository {
	return &ServerRepository{pool: pool}
}

const serverColumns = `id, server_id, order_id, user_id, name, email, plan_name, plan_price,
	   plan_ram, location, processor, panel_link, panel_password, panel_gmail,
	   status, suspension_reason, expires_at, created_at, updated_at`

// GetByID retrieves a server by ID
func (r *ServerRepository) GetByID(ctx context.Context, id string) (*models.UserServer, error) {
	query := fmt.Sprintf(`SELECT %s FROM portal.user_servers WHERE id = $1`, serverColumns)
	return r.scanServer(r.pool.QueryRow(ctx, query, id))
}

// GetByUserID retrieves a user's servers, newest first
func (r *ServerRepository) GetByUserID(ctx context.Context, userID string) ([]*models.UserServer, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM portal.user_servers
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, serverColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query servers: %w", err)
	}
	defer rows.Close()

	return r.scanServers(rows)
}

// GetAll retrieves all servers, optionally filtered by status, newest first
func (r *ServerRepository) GetAll(ctx context.Context, status string) ([]*models.UserServer, error) {
	query := fmt.Sprintf(`SELECT %s FROM portal.user_servers ORDER BY created_at DESC`, serverColumns)
	args := []interface{}{}
	if status != "" {
		query = fmt.Sprintf(`SELECT %s FROM portal.user_servers WHERE status = $1 ORDER BY created_at DESC`, serverColumns)
		args = append(args, status)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query servers: %w", err)
	}
	defer rows.Close()

	return r.scanServers(rows)
}

// UpdateStatus sets the status and suspension reason
func (r *ServerRepository) UpdateStatus(ctx context.Context, id, status string, reason *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE portal.user_servers SET status = $1, suspension_reason = $2, updated_at = now()
		WHERE id = $3
	`, status, reason, id)
	if err != nil {
		return fmt.Errorf("update server status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Reactivate returns a server to active, clears the suspension reason, and
// moves expires_at forward
func (r *ServerRepository) Reactivate(ctx context.Context, id string, expiresAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE portal.user_servers SET
			status = $1, suspension_reason = NULL, expires_at = $2, updated_at = now()
		WHERE id = $3
	`, models.ServerStatusActive, expiresAt, id)
	if err != nil {
		return fmt.Errorf("reactivate server: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete hard-deletes a server row
func (r *ServerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM portal.user_servers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete server: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ServerRepository) scanServer(row pgx.Row) (*models.UserServer, error) {
	srv := &models.UserServer{}
	err := row.Scan(
		&srv.ID, &srv.ServerID, &srv.OrderID, &srv.UserID, &srv.Name, &srv.Email,
		&srv.PlanName, &srv.PlanPrice, &srv.PlanRAM, &srv.Location, &srv.Processor,
		&srv.PanelLink, &srv.PanelPassword, &srv.PanelGmail,
		&srv.Status, &srv.SuspensionReason, &srv.ExpiresAt, &srv.CreatedAt, &srv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan server: %w", err)
	}
	return srv, nil
}

func (r *ServerRepository) scanServers(rows pgx.Rows) ([]*models.UserServer, error) {
	var servers []*models.UserServer
	for rows.Next() {
		srv := &models.UserServer{}
		err := rows.Scan(
			&srv.ID, &srv.ServerID, &srv.OrderID, &srv.UserID, &srv.Name, &srv.Email,
			&srv.PlanName, &srv.PlanPrice, &srv.PlanRAM, &srv.Location, &srv.Processor,
			&srv.PanelLink, &srv.PanelPassword, &srv.PanelGmail,
			&srv.Status, &srv.SuspensionReason, &srv.ExpiresAt, &srv.CreatedAt, &srv.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan server row: %w", err)
		}
		servers = append(servers, srv)
	}
	return servers, rows.Err()
}
