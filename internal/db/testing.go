package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func migrationsPath() string {
	if path := os.Getenv("TEST_MIGRATIONS_PATH"); path != "" {
		return path
	}
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

func applyMigrations(connString string) {
	m, err := migrate.New("file://"+migrationsPath(), connString)
	if err != nil {
		panic(fmt.Sprintf("Could not connect to DB for applying migrations %v.", err))
	}
	err = m.Up()
	if !errors.Is(err, migrate.ErrNoChange) && err != nil {
		panic(fmt.Sprintf("Could not apply DB migrations %v.", err))
	}
}

// CreateTestPool skips the calling test when TEST_POSTGRESQL_URL is not set.
func CreateTestPool(t testing.TB) *pgxpool.Pool {
	connString := os.Getenv("TEST_POSTGRESQL_URL")
	if connString == "" {
		t.Skip("TEST_POSTGRESQL_URL is not set.")
	}
	applyMigrations(connString)

	ctx := context.Background()
	pool, err := pgxpool.Connect(ctx, connString)
	if err != nil {
		panic("Could not connect to the database.")
	}

	return pool
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), "TRUNCATE \"user\", auth_verify RESTART IDENTITY CASCADE")
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}
