package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yusuketakei/tickets/internal/models"
)

// Schema creates the table PostgresResolver reads
const Schema = `
CREATE TABLE IF NOT EXISTS dashboard_users (
	user_id      TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	address      TEXT NOT NULL
)`

// PostgresResolver reads users from the dashboard_users table
type PostgresResolver struct {
	pool *pgxpool.Pool
}

func NewPostgresResolver(pool *pgxpool.Pool) *PostgresResolver {
	return &PostgresResolver{pool: pool}
}

func (p *PostgresResolver) Resolve(ctx context.Context, userID string) (models.UserProfile, bool, error) {
	if userID == "" {
		return models.UserProfile{}, false, nil
	}

	var u models.UserProfile
	err := p.pool.QueryRow(ctx, `
		SELECT user_id, display_name, address
		FROM dashboard_users
		WHERE user_id = $1`, userID).Scan(&u.UserID, &u.DisplayName, &u.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.UserProfile{}, false, nil
	}
	if err != nil {
		return models.UserProfile{}, false, fmt.Errorf("resolve user %q: %w", userID, err)
	}
	return u, true, nil
}

// Upsert inserts or replaces a user row
func (p *PostgresResolver) Upsert(ctx context.Context, u models.UserProfile) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO dashboard_users (user_id, display_name, address)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name, address = EXCLUDED.address`,
		u.UserID, u.DisplayName, u.Address)
	if err != nil {
		return fmt.Errorf("upsert user %q: %w", u.UserID, err)
	}
	return nil
}

// EnsureSchema creates dashboard_users if it does not exist
func (p *PostgresResolver) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create dashboard_users: %w", err)
	}
	return nil
}
