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

type LocationRepository struct {
	pool *pgxpool.Pool
}

func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{pool: pool}
}

const locationColumns = `id, name, code, flag, active, sort_order, created_at, updated_at`

// GetActive retrieves active locations in display order
func (r *LocationRepository) GetActive(ctx context.Context) ([]*models.Location, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM portal.locations
		WHERE active = true
		ORDER BY sort_order ASC
	`, locationColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	return r.scanLocations(rows)
}

// GetAll retrieves all locations including inactive ones (admin view)
func (r *LocationRepository) GetAll(ctx context.Context) ([]*models.Location, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM portal.locations
		ORDER BY sort_order ASC
	`, locationColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	return r.scanLocations(rows)
}

// GetByCode retrieves a location by its code
func (r *LocationRepository) GetByCode(ctx context.Context, code string) (*models.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM portal.locations WHERE code = $1`, locationColumns)
	return r.scanLocation(r.pool.QueryRow(ctx, query, NormalizeLocationCode(code)))
}

// Create inserts a new location
func (r *LocationRepository) Create(ctx context.Context, loc *models.Location) error {
	if loc.ID == "" {
		loc.ID = uuid.New().String()
	}
	loc.Code = NormalizeLocationCode(loc.Code)

	query := `
		INSERT INTO portal.locations (id, name, code, flag, active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query, loc.ID, loc.Name, loc.Code, loc.Flag, loc.Active, loc.SortOrder)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}

	return nil
}

// Update rewrites a location row
func (r *LocationRepository) Update(ctx context.Context, loc *models.Location) error {
	loc.Code = NormalizeLocationCode(loc.Code)

	query := `
		UPDATE portal.locations SET
			name = $1, code = $2, flag = $3, active = $4, sort_order = $5, updated_at = now()
		WHERE id = $6
	`

	tag, err := r.pool.Exec(ctx, query, loc.Name, loc.Code, loc.Flag, loc.Active, loc.SortOrder, loc.ID)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a location row
func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM portal.locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LocationRepository) scanLocation(row pgx.Row) (*models.Location, error) {
	loc := &models.Location{}
	err := row.Scan(
		&loc.ID, &loc.Name, &loc.Code, &loc.Flag,
		&loc.Active, &loc.SortOrder, &loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan location: %w", err)
	}
	return loc, nil
}

func (r *LocationRepository) scanLocations(rows pgx.Rows) ([]*models.Location, error) {
	var locations []*models.Location
	for rows.Next() {
		loc := &models.Location{}
		err := rows.Scan(
			&loc.ID, &loc.Name, &loc.Code, &loc.Flag,
			&loc.Active, &loc.SortOrder, &loc.CreatedAt, &loc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan location row: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}
