package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// requiredTables must all be queryable before the store is used.
var requiredTables = []string{"transactions", "user_settings"}

// PgxSchemaChecker verifies the required tables with a single-row SELECT per table.
type PgxSchemaChecker struct {
	BaseRepository
}

func newPgxSchemaChecker(pool *pgxpool.Pool) portsrepo.SchemaChecker {
	return &PgxSchemaChecker{BaseRepository: BaseRepository{Pool: pool}}
}

func (c *PgxSchemaChecker) CheckSchema(ctx context.Context) error {
	for _, table := range requiredTables {
		rows, err := c.Pool.Query(ctx, fmt.Sprintf("SELECT 1 FROM %s LIMIT 1", table))
		if err != nil {
			return c.mapError(err, "check table "+table)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return c.mapError(err, "check table "+table)
		}
	}
	return nil
}
