package repositories

import "context"

// SchemaChecker confirms that the remote store's tables exist and are queryable.
type SchemaChecker interface {
	// CheckSchema returns an error when a required table cannot be queried.
	CheckSchema(ctx context.Context) error
}
