package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deltahost/portal-service/internal/models"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, order_id, user_id, name, email, plan_name, plan_price, plan_ram,
	   location, processor, payment_method, transaction_id, screenshot_url,
	   panel_link, panel_password, panel_gmail, status, reject_reason,
	   created_at, updated_at`

// Create inserts a new pending order
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO portal.orders (
			id, order_id, user_id, name, email, plan_name, plan_price, plan_ram,
			location, processor, payment_method, transaction_id, screenshot_url, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		order.ID, order.OrderID, order.UserID, order.Name, order.Email,
		order.PlanName, order.PlanPrice, order.PlanRAM,
		order.Location, order.Processor, order.PaymentMethod,
		order.TransactionID, order.ScreenshotURL, order.Status,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM portal.orders WHERE id = $1`, orderColumns)
	return r.scanOrder(r.pool.QueryRow(ctx, query, id))
}

// GetByUserID retrieves a user's orders, newest first
func (r *OrderRepository) GetByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM portal.orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, orderColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	return r.scanOrders(rows)
}

// GetAll retrieves all orders, optionally filtered by status, newest first
func (r *OrderRepository) GetAll(ctx context.Context, status string) ([]*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM portal.orders ORDER BY created_at DESC`, orderColumns)
	args := []interface{}{}
	if status != "" {
		query = fmt.Sprintf(`SELECT %s FROM portal.orders WHERE status = $1 ORDER BY created_at DESC`, orderColumns)
		args = append(args, status)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	return r.scanOrders(rows)
}

// ApproveWithServer flips a pending order to approved, writes the panel
// credentials, and inserts the server row in one transaction. Either both
// rows land or neither does.
func (r *OrderRepository) ApproveWithServer(ctx context.Context, orderID string, creds *models.ApproveOrderRequest, server *models.UserServer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE portal.orders SET
			status = $1, panel_link = $2, panel_password = $3, panel_gmail = $4, updated_at = now()
		WHERE id = $5 AND status = $6
	`, models.OrderStatusApproved, creds.PanelLink, creds.PanelPassword, creds.PanelGmail,
		orderID, models.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("approve order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order is not pending: %w", ErrNotFound)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO portal.user_servers (
			id, server_id, order_id, user_id, name, email, plan_name, plan_price,
			plan_ram, location, processor, panel_link, panel_password, panel_gmail,
			status, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, server.ID, server.ServerID, server.OrderID, server.UserID, server.Name, server.Email,
		server.PlanName, server.PlanPrice, server.PlanRAM, server.Location, server.Processor,
		server.PanelLink, server.PanelPassword, server.PanelGmail, server.Status, server.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert server: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// Reject flips a pending order to rejected with an optional reason
func (r *OrderRepository) Reject(ctx context.Context, orderID string, reason *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE portal.orders SET status = $1, reject_reason = $2, updated_at = now()
		WHERE id = $3 AND status = $4
	`, models.OrderStatusRejected, reason, orderID, models.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("reject order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order is not pending: %w", ErrNotFound)
	}

	return nil
}

func (r *OrderRepository) scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(
		&order.ID, &order.OrderID, &order.UserID, &order.Name, &order.Email,
		&order.PlanName, &order.PlanPrice, &order.PlanRAM,
		&order.Location, &order.Processor, &order.PaymentMethod,
		&order.TransactionID, &order.ScreenshotURL,
		&order.PanelLink, &order.PanelPassword, &order.PanelGmail,
		&order.Status, &order.RejectReason, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return order, nil
}

func (r *OrderRepository) scanOrders(rows pgx.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		err := rows.Scan(
			&order.ID, &order.OrderID, &order.UserID, &order.Name, &order.Email,
			&order.PlanName, &order.PlanPrice, &order.PlanRAM,
			&order.Location, &order.Processor, &order.PaymentMethod,
			&order.TransactionID, &order.ScreenshotURL,
			&order.PanelLink, &order.PanelPassword, &order.PanelGmail,
			&order.Status, &order.RejectReason, &order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
