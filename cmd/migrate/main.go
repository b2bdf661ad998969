package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	path := flag.String("path", "migrations", "directory with migration files")
	down := flag.Bool("down", false, "roll back the last migration instead of applying all")
	flag.Parse()

	url := os.Getenv("POSTGRESQL_URL")
	if url == "" {
		fmt.Fprintln(os.Stderr, "error: POSTGRESQL_URL must be set")
		os.Exit(1)
	}

	m, err := migrate.New("file://"+*path, url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	if *down {
		err = m.Steps(-1)
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Schema version: %d (dirty: %t)\n", version, dirty)
}
