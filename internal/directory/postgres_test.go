package directory

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yusuketakei/tickets/internal/models"
)

// Runs only against a real database, e.g.
// DASHBOARD_TEST_DATABASE_URL=postgres://localhost/dashboard_test
func TestPostgresResolver(t *testing.T) {
	dsn := os.Getenv("DASHBOARD_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("DASHBOARD_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	r := NewPostgresResolver(pool)
	if err := r.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	want := models.UserProfile{UserID: "test-user", DisplayName: "Test", Address: "0x2ece2166f3232a49345bb99e8481121a448661f9"}
	if err := r.Upsert(ctx, want); err != nil {
		t.Fatalf("Failed to upsert user: %v", err)
	}
	defer pool.Exec(ctx, `DELETE FROM dashboard_users WHERE user_id = $1`, want.UserID)

	got, found, err := r.Resolve(ctx, want.UserID)
	if err != nil || !found || got != want {
		t.Errorf("Resolve = %+v, %v, %v; want %+v", got, found, err, want)
	}

	_, found, err = r.Resolve(ctx, "no-such-user")
	if err != nil || found {
		t.Errorf("Resolve(unknown) found = %v, err = %v", found, err)
	}
}
