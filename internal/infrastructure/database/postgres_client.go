package database

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMissingDatabaseURL = errors.New("missing DATABASE_URL")

// ConnectPostgres opens the pgx pool for the postgres storage driver and
// checks the connection before returning.
func ConnectPostgres(ctx context.Context) (*pgxpool.Pool, error) {
	url := GetenvDefault("DATABASE_URL", "")
	if url == "" {
		return nil, ErrMissingDatabaseURL
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	log.Printf("[storage][postgres] pool ready max_conns=%d", pool.Config().MaxConns)
	return pool, nil
}
