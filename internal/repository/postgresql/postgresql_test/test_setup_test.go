package postgresql_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/database"
)

// ErrNoTestDatabase is returned when TEST_DATABASE_URL is not set.
var ErrNoTestDatabase = errors.New("TEST_DATABASE_URL not set")

// TestDatabaseSetup wraps the database used by repository tests.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and creates the tables the
// reporting repositories read.
func NewTestDatabase(ctx context.Context) (*TestDatabaseSetup, error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, ErrNoTestDatabase
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.CreateSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return setup, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL,
		full_name TEXT,
		is_technician BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		is_super_admin BOOLEAN NOT NULL DEFAULT FALSE,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS business_units (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		working_hours JSONB,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_by UUID
	)`,
	`CREATE TABLE IF NOT EXISTS technician_business_units (
		id BIGSERIAL PRIMARY KEY,
		technician_id UUID NOT NULL REFERENCES users(id),
		business_unit_id INTEGER NOT NULL REFERENCES business_units(id),
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS web_sessions (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL,
		last_heartbeat TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id BIGSERIAL PRIMARY KEY,
		request_id UUID NOT NULL,
		sender_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS request_assignees (
		id BIGSERIAL PRIMARY KEY,
		request_id UUID NOT NULL,
		assignee_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID,
		action TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id TEXT NOT NULL,
		old_values JSONB,
		new_values JSONB,
		changes_summary TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// CreateSchema creates any missing table.
func (t *TestDatabaseSetup) CreateSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := t.DB.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// TruncateAllTables removes all rows from the test tables
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"audit_logs",
		"request_assignees",
		"chat_messages",
		"web_sessions",
		"technician_business_units",
		"business_units",
		"users",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
