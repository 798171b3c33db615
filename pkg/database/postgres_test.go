package database

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5433, User: "bazzar", Password: "pw", DBName: "catalog", SSLMode: "disable"}
	assert.Equal(t, "postgres://bazzar:pw@db:5433/catalog?sslmode=disable", cfg.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}

func TestRetryBackoff_WithinJitter(t *testing.T) {
	for attempt := 0; attempt < retryAttempts; attempt++ {
		base := retryBaseWait << attempt
		lo := time.Duration(float64(base) * (1 - retryJitterFraction))
		hi := time.Duration(float64(base) * (1 + retryJitterFraction))
		for i := 0; i < 20; i++ {
			d := retryBackoff(attempt)
			assert.GreaterOrEqual(t, d, lo)
			assert.LessOrEqual(t, d, hi)
		}
	}
	assert.InDelta(t, float64(retryBaseWait), float64(retryBackoff(-1)), float64(retryBaseWait)*retryJitterFraction)
}

func TestRetry_SucceedsFirstTime(t *testing.T) {
	calls := 0
	err := retry(context.Background(), nil, "op", always, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_NonRetryableReturnsImmediately(t *testing.T) {
	boom := errors.New("syntax error at or near")
	calls := 0
	err := retry(context.Background(), nil, "op", isConnectionError, func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetry_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry(ctx, nil, "connect", always, func() error {
		calls++
		return errors.New("connection refused")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsConnectionError(t *testing.T) {
	assert.False(t, isConnectionError(nil))
	assert.True(t, isConnectionError(io.EOF))
	assert.True(t, isConnectionError(&pgconn.ConnectError{}))
	assert.False(t, isConnectionError(&pgconn.PgError{Code: "42601"}))
	assert.False(t, isConnectionError(errors.New("duplicate key")))
}
