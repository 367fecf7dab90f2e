package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup wraps a connection to the test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and skips the test when it is unset
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")

	setup := &TestDatabaseSetup{DB: db}
	ctx := context.Background()
	require.NoError(t, db.EnsureSchema(ctx))
	require.NoError(t, setup.TruncateAllTables(ctx))

	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes all rows from the attendance tables
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"attendances",
		"users",
		"departments",
		"roles",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// SeedUser inserts a user with an optional department
func (s *TestDatabaseSetup) SeedUser(t *testing.T, id, first, last string, department *string) {
	t.Helper()
	ctx := context.Background()

	var deptID *string
	if department != nil {
		deptKey := "dept-" + *department
		_, err := s.DB.Exec(ctx, `INSERT INTO departments (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`, deptKey, *department)
		require.NoError(t, err)
		deptID = &deptKey
	}

	_, err := s.DB.Exec(ctx, `
		INSERT INTO users (id, first_name, last_name, department_id)
		VALUES ($1, $2, $3, $4)
	`, id, first, last, deptID)
	require.NoError(t, err)
}

// Close closes the database pool
func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}
