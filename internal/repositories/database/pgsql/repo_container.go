package pgsql

import (
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider fills the remote store fields of a provider backed by Postgres.
// Cache, file and document adapters are wired by the caller.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: newPgxTransactionRepository(dbPool),
		SettingsRepo:    newPgxSettingsRepository(dbPool),
		SchemaChecker:   newPgxSchemaChecker(dbPool),
	}
}
