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

var ErrEmailTaken = errors.New("email already registered")

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, name, password_hash, is_banned, ban_reason, created_at, updated_at`

// Create inserts a new user account
func (r *UserRepository) Create(ctx context.Context, user *models.PortalUser) error {
	query := `
		INSERT INTO portal.portal_users (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, user.ID, strings.ToLower(user.Email), user.Name, user.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.PortalUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM portal.portal_users WHERE id = $1`, userColumns)
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.PortalUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM portal.portal_users WHERE email = $1`, userColumns)
	return r.scanUser(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

// GetAll retrieves all users, newest first (admin view)
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.PortalUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM portal.portal_users ORDER BY created_at DESC`, userColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*models.PortalUser
	for rows.Next() {
		user := &models.PortalUser{}
		err := rows.Scan(
			&user.ID, &user.Email, &user.Name, &user.PasswordHash,
			&user.IsBanned, &user.BanReason, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// SetBan sets or clears the ban flag and reason
func (r *UserRepository) SetBan(ctx context.Context, id string, banned bool, reason *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE portal.portal_users SET is_banned = $1, ban_reason = $2, updated_at = now()
		WHERE id = $3
	`, banned, reason, id)
	if err != nil {
		return fmt.Errorf("update user ban: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*models.PortalUser, error) {
	user := &models.PortalUser{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.IsBanned, &user.BanReason, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}
