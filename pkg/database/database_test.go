package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewAppliesPragmasPerConnection verifies that WAL mode and the busy
// timeout are set on every pooled connection, not just the first one.
func TestNewAppliesPragmasPerConnection(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	db, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	// Cap the pool and query repeatedly so multiple connections get
	// exercised.
	db.SetMaxOpenConns(4)

	for i := 0; i < 8; i++ {
		var timeout int64
		require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&timeout))
		assert.Equal(t, cfg.DatabaseBusyTimeout.Milliseconds(), timeout)

		var mode string
		require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode)
	}
}
