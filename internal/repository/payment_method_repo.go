package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deltahost/portal-service/internal/models"
)

type PaymentMethodRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentMethodRepository(pool *pgxpool.Pool) *PaymentMethodRepository {
	return &PaymentMethodRepository{pool: pool}
}

const paymentMethodColumns = `id, name, icon, account_number, account_title, qr_code_url,
	   sort_order, created_at, updated_at`

// GetAll retrieves payment methods in display order
func (r *PaymentMethodRepository) GetAll(ctx context.Context) ([]*models.PaymentMethod, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM portal.payment_methods
		ORDER BY sort_order ASC
	`, paymentMethodColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query payment methods: %w", err)
	}
	defer rows.Close()

	var methods []*models.PaymentMethod
	for rows.Next() {
		pm := &models.PaymentMethod{}
		err := rows.Scan(
			&pm.ID, &pm.Name, &pm.Icon, &pm.AccountNumber, &pm.AccountTitle,
			&pm.QRCodeURL, &pm.SortOrder, &pm.CreatedAt, &pm.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payment method row: %w", err)
		}
		methods = append(methods, pm)
	}
	return methods, rows.Err()
}

// GetByID retrieves a payment method by ID
func (r *PaymentMethodRepository) GetByID(ctx context.Context, id string) (*models.PaymentMethod, error) {
	query := fmt.Sprintf(`SELECT %s FROM portal.payment_methods WHERE id = $1`, paymentMethodColumns)

	pm := &models.PaymentMethod{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&pm.ID, &pm.Name, &pm.Icon, &pm.AccountNumber, &pm.AccountTitle,
		&pm.QRCodeURL, &pm.SortOrder, &pm.CreatedAt, &pm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan payment method: %w", err)
	}
	return pm, nil
}

// Create inserts a new payment method
func (r *PaymentMethodRepository) Create(ctx context.Context, pm *models.PaymentMethod) error {
	if pm.ID == "" {
		pm.ID = uuid.New().String()
	}

	query := `
		INSERT INTO portal.payment_methods (id, name, icon, account_number, account_title, qr_code_url, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		pm.ID, pm.Name, pm.Icon, pm.AccountNumber, pm.AccountTitle, pm.QRCodeURL, pm.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("insert payment method: %w", err)
	}

	return nil
}

// Update rewrites a payment method row
func (r *PaymentMethodRepository) Update(ctx context.Context, pm *models.PaymentMethod) error {
	query := `
		UPDATE portal.payment_methods SET
			name = $1, icon = $2, account_number = $3, account_title = $4,
			qr_code_url = $5, sort_order = $6, updated_at = now()
		WHERE id = $7
	`

	tag, err := r.pool.Exec(ctx, query,
		pm.Name, pm.Icon, pm.AccountNumber, pm.AccountTitle, pm.QRCodeURL, pm.SortOrder, pm.ID,
	)
	if err != nil {
		return fmt.Errorf("update payment method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a payment method row
func (r *PaymentMethodRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM portal.payment_methods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
