package repomanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/referralhub/internal/server/repositories/accounts"
)

// RepositoryManager vends the account repository for one storage backend
// and owns its connection.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Accounts() accounts.Repository
	// WithTx runs fn with a repository whose writes commit or roll back
	// together where the backend supports it.
	WithTx(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Backend names reported by Kind.
const (
	KindMemory   = "memory"
	KindPostgres = "postgres"
	KindMongo    = "mongo"
)

// Kind picks a backend from the DSN scheme.
func Kind(dsn string) (string, error) {
	switch {
	case dsn == "" || dsn == KindMemory:
		return KindMemory, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return KindPostgres, nil
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return KindMongo, nil
	default:
		return "", fmt.Errorf("unsupported database DSN scheme in %q", redact(dsn))
	}
}

func redact(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i+3] + "…"
	}
	return "…"
}

// Open connects to the backend named by dsn. mongoDatabase is only used for
// mongo DSNs.
func Open(ctx context.Context, dsn, mongoDatabase string) (RepositoryManager, error) {
	kind, err := Kind(dsn)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindPostgres:
		db, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return NewPostgresRepositoryManager(db)
	case KindMongo:
		client, err := ConnectMongo(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return NewMongoRepositoryManager(client, mongoDatabase), nil
	default:
		return NewMemoryRepositoryManager(), nil
	}
}
