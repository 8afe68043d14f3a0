package repo_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/pkordes/eld-logbook/migrations"
	"github.com/pkordes/eld-logbook/testutil"
)

// TestMain migrates the test database once per binary. Without
// TEST_DATABASE_URL only the pgxmock tests do any work.
func TestMain(m *testing.M) {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		if err := migrateUp(dsn); err != nil {
			fmt.Fprintln(os.Stderr, "repo TestMain:", err)
			os.Exit(1)
		}
	}
	os.Exit(m.Run())
}

func migrateUp(dsn string) error {
	db := testutil.MustOpenSQLDB(dsn)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
