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

// Plan table names. Standard (intel) and EPYC (amd) plans share one shape but
// live in separate tables.
const (
	TableHostingPlans = "portal.hosting_plans"
	TableEpycPlans    = "portal.epyc_plans"
)

// legacyLocationAliases maps retired location codes to their current names.
// Old rows written before the rename stay queryable.
var legacyLocationAliases = map[string]string{
	"dubai": "uae",
}

// NormalizeLocationCode resolves legacy location aliases
func NormalizeLocationCode(code string) string {
	if canonical, ok := legacyLocationAliases[code]; ok {
		return canonical
	}
	return code
}

type PlanRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewPlanRepository creates a repository bound to one plan table
func NewPlanRepository(pool *pgxpool.Pool, table string) *PlanRepository {
	return &PlanRepository{pool: pool, table: table}
}

const planColumns = `id, name, icon, ram, performance, location_code, price, currency,
	   color_from, color_to, features, popular, sort_order, active, created_at, updated_at`

// GetActiveByLocation retrieves active plans for a location, ascending sort_order
func (r *PlanRepository) GetActiveByLocation(ctx context.Context, locationCode string) ([]*models.HostingPlan, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE location_code = $1 AND active = true
		ORDER BY sort_order ASC
	`, planColumns, r.table)

	rows, err := r.pool.Query(ctx, query, NormalizeLocationCode(locationCode))
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	return r.scanPlans(rows)
}

// GetAll retrieves all plans including inactive ones (admin view)
func (r *PlanRepository) GetAll(ctx context.Context) ([]*models.HostingPlan, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY location_code, sort_order ASC
	`, planColumns, r.table)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	return r.scanPlans(rows)
}

// GetByID retrieves a plan by ID
func (r *PlanRepository) GetByID(ctx context.Context, id string) (*models.HostingPlan, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, planColumns, r.table)
	return r.scanPlan(r.pool.QueryRow(ctx, query, id))
}

// Create inserts a new plan
func (r *PlanRepository) Create(ctx context.Context, plan *models.HostingPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	plan.LocationCode = NormalizeLocationCode(plan.LocationCode)

	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, name, icon, ram, performance, location_code, price, currency,
			color_from, color_to, features, popular, sort_order, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, r.table)

	_, err := r.pool.Exec(ctx, query,
		plan.ID, plan.Name, plan.Icon, plan.RAM, plan.Performance, plan.LocationCode,
		plan.Price, plan.Currency, plan.ColorFrom, plan.ColorTo, plan.Features,
		plan.Popular, plan.SortOrder, plan.Active,
	)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}

	return nil
}

// Update rewrites a plan row
func (r *PlanRepository) Update(ctx context.Context, plan *models.HostingPlan) error {
	plan.LocationCode = NormalizeLocationCode(plan.LocationCode)

	query := fmt.Sprintf(`
		UPDATE %s SET
			name = $1, icon = $2, ram = $3, performance = $4, location_code = $5,
			price = $6, currency = $7, color_from = $8, color_to = $9, features = $10,
			popular = $11, sort_order = $12, active = $13, updated_at = now()
		WHERE id = $14
	`, r.table)

	tag, err := r.pool.Exec(ctx, query,
		plan.Name, plan.Icon, plan.RAM, plan.Performance, plan.LocationCode,
		plan.Price, plan.Currency, plan.ColorFrom, plan.ColorTo, plan.Features,
		plan.Popular, plan.SortOrder, plan.Active, plan.ID,
	)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a plan row
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PlanRepository) scanPlan(row pgx.Row) (*models.HostingPlan, error) {
	plan := &models.HostingPlan{}
	err := row.Scan(
		&plan.ID, &plan.Name, &plan.Icon, &plan.RAM, &plan.Performance, &plan.LocationCode,
		&plan.Price, &plan.Currency, &plan.ColorFrom, &plan.ColorTo, &plan.Features,
		&plan.Popular, &plan.SortOrder, &plan.Active, &plan.CreatedAt, &plan.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan plan: %w", err)
	}
	return plan, nil
}

func (r *PlanRepository) scanPlans(rows pgx.Rows) ([]*models.HostingPlan, error) {
	var plans []*models.HostingPlan
	for rows.Next() {
		plan := &models.HostingPlan{}
		err := rows.Scan(
			&plan.ID, &plan.Name, &plan.Icon, &plan.RAM, &plan.Performance, &plan.LocationCode,
			&plan.Price, &plan.Currency, &plan.ColorFrom, &plan.ColorTo, &plan.Features,
			&plan.Popular, &plan.SortOrder, &plan.Active, &plan.CreatedAt, &plan.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
