package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaChecker verifies that the required tables can be queried.
type SchemaChecker struct {
	db *sql.DB
}

// NewSchemaChecker creates a schema checker on db.
func NewSchemaChecker(db *sql.DB) *SchemaChecker {
	return &SchemaChecker{db: db}
}

func (c *SchemaChecker) CheckSchema(ctx context.Context) error {
	for _, table := range []string{"transactions", "user_settings"} {
		rows, err := c.db.QueryContext(ctx, fmt.Sprintf("SELECT 1 FROM %s LIMIT 1", table))
		if err != nil {
			return fmt.Errorf("check table %s: %w", table, err)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("check table %s: %w", table, err)
		}
	}
	return nil
}
