package database

import (
	"context"
	"fmt"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/logger"

	_ "github.com/jackc/pgx/v4/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // registers "oracle"
	"go.uber.org/zap"
)

func init() {
	// go-ora은 sqlx 기본 bind 목록에 없으므로 :arg1 형식의 named bind로 등록
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// DriverName maps a configured dialect to its registered database/sql driver.
func DriverName(dialect string) (string, error) {
	switch dialect {
	case config.DriverOracle:
		return "oracle", nil
	case config.DriverPostgres:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", dialect)
	}
}

// Connect opens a pooled sqlx connection for cfg and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DBConfig, dsn string) (*sqlx.DB, error) {
	driverName, err := DriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	logger.Get().Info("Successfully connected to database",
		zap.String("driver", cfg.Driver),
		zap.String("host", cfg.Host),
		zap.String("name", cfg.DBName),
	)
	return db, nil
}
