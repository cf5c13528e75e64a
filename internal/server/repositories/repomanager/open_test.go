package repomanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	m, db, err := Open(context.Background(), MemoryDSN, time.Second)
	require.NoError(t, err)
	assert.Nil(t, db)
	assert.IsType(t, &InMemoryRepositoryManager{}, m)
	assert.NoError(t, m.RunMigrations(context.Background(), db))
}

func TestOpen_UnreachablePostgres(t *testing.T) {
	_, db, err := Open(context.Background(), "postgres://u:p@127.0.0.1:1/none?sslmode=disable&connect_timeout=1", 2*time.Second)
	require.Error(t, err)
	assert.Nil(t, db)
}
