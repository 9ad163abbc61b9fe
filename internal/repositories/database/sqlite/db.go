// Package sqlite implements the remote store on a local SQLite file for development
// and tests. Amounts are stored as decimal text and dates as YYYY-MM-DD.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/repositories/database/migrations"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// timestampLayout has a fixed width so that text ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Open opens (creating if needed) the database file, optionally applying migrations.
func Open(ctx context.Context, dbPath string, runMigrations bool) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	if runMigrations {
		if _, err := migrations.RunSQLite(dbPath); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// NewRepositoryProvider fills the remote store fields of a provider backed by SQLite.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: NewTransactionRepository(db),
		SettingsRepo:    NewSettingsRepository(db),
		SchemaChecker:   NewSchemaChecker(db),
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

// toSQLiteValue converts Go values to the text representation used by the schema.
func toSQLiteValue(column string, v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.String()
	case decimal.NullDecimal:
		if !x.Valid {
			return nil
		}
		return x.Decimal.String()
	case time.Time:
		if column == "date" {
			return x.Format(domain.DateLayout)
		}
		return formatTimestamp(x)
	default:
		return v
	}
}
