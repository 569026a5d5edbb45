// Package storage opens the configured relational backend.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"flavor_sentiment/internal/domain"
	mysqlrepo "flavor_sentiment/internal/storage/mysql"
	pgrepo "flavor_sentiment/internal/storage/postgres"
	"flavor_sentiment/internal/storage/sqlite"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrNoDSN = errors.New("store DSN is empty")

// Repo is everything a backend offers: the synchronizer's write contract and
// the API's read models.
type Repo interface {
	domain.SentimentStore
	domain.SentimentReader
}

type Backend struct {
	Repo Repo
	DB   *sql.DB
}

func (b Backend) Close() error { return b.DB.Close() }

// Open connects to driver at dsn and checks the connection. SQLite schemas
// are created on open; mysql and postgres expect migrations/ to be applied.
func Open(ctx context.Context, driver, dsn string) (Backend, error) {
	if dsn == "" {
		return Backend{}, ErrNoDSN
	}

	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverMySQL, "":
		driver = DriverMySQL
		db, err = sql.Open("mysql", dsn)
	case DriverPostgres:
		db, err = sql.Open("postgres", dsn)
	case DriverSQLite:
		db, err = sqlite.Open(dsn)
	default:
		return Backend{}, fmt.Errorf("unknown store driver %q", driver)
	}
	if err != nil {
		return Backend{}, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return Backend{}, fmt.Errorf("ping %s: %w", driver, err)
	}

	var repo Repo
	switch driver {
	case DriverMySQL:
		repo = mysqlrepo.New(db)
	case DriverPostgres:
		repo = pgrepo.New(db)
	case DriverSQLite:
		if err := sqlite.Migrate(db); err != nil {
			db.Close()
			return Backend{}, err
		}
		repo = sqlite.New(db)
	}
	return Backend{Repo: repo, DB: db}, nil
}
