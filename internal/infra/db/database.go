package db

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"tour-booking/internal/pkg/config"
	"tour-booking/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns = 20
	defaultMinConns = 2
)

// Connect opens the pool and pings it. LockTimeout bounds how long a
// booking waits on a departure row held by a concurrent transaction.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, func(), error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.BuildDSN())
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to parse database config")
	}

	poolCfg.MaxConns = orDefault(cfg.MaxConns, defaultMaxConns)
	poolCfg.MinConns = orDefault(cfg.MinConns, defaultMinConns)
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 15 * time.Minute
	if cfg.LockTimeout > 0 {
		poolCfg.ConnConfig.RuntimeParams["lock_timeout"] = strconv.FormatInt(cfg.LockTimeout.Milliseconds(), 10)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to open database")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, errs.Wrap(err, "failed to ping database")
	}
	slog.Info("database pool ready",
		"host", cfg.Host,
		"db", cfg.DBName,
		"max_conns", poolCfg.MaxConns,
		"lock_timeout", cfg.LockTimeout)

	cleanup := func() {
		stat := pool.Stat()
		slog.Info("closing database pool", "acquired", stat.AcquiredConns(), "total", stat.TotalConns())
		pool.Close()
	}

	return pool, cleanup, nil
}

func orDefault(v, def int32) int32 {
	if v <= 0 {
		return def
	}
	return v
}
