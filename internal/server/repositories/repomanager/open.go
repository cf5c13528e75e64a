package repomanager

import (
	"context"
	"database/sql"
	"time"
)

// MemoryDSN selects the in-memory store.
const MemoryDSN = "memory"

// Open picks the manager for dsn. For PostgreSQL it opens a pool through the
// pgx driver and pings it within pingTimeout; for MemoryDSN the returned
// *sql.DB is nil.
func Open(ctx context.Context, dsn string, pingTimeout time.Duration) (RepositoryManager, *sql.DB, error) {
	if dsn == MemoryDSN {
		return NewInMemoryRepositoryManager(), nil, nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, err
	}

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return NewPostgresRepositoryManager(), db, nil
}
