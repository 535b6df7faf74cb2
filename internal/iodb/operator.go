// Package iodb implements the catalog store handle with GORM.
// This is an impure I/O package that implements contracts
// defined in pkg/.
//
// Two backends are supported: a single-file sqlite catalog (pure Go
// driver modernc.org/sqlite) and PostgreSQL through a pgx pool.
package iodb

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/db"
	"github.com/ncpp/dscat/pkg/schema"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// registers the pure Go "sqlite" database/sql driver
	_ "modernc.org/sqlite"
)

// gormOperator implements db.Operator interface.
type gormOperator struct {
	db   *gorm.DB
	pool *pgxpool.Pool
}

// New creates a new catalog operator (without connecting).
func New() db.Operator {
	return &gormOperator{}
}

// Connect opens the catalog configured by cfg.Catalog.
func (o *gormOperator) Connect(
	ctx context.Context,
	cfg *config.Config,
) error {
	gormCfg := &gorm.Config{
		Logger: logger.NewSlogLogger(slog.Default(), logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	switch cfg.Catalog.Backend {
	case "postgres":
		return o.connectPostgres(ctx, &cfg.Catalog, gormCfg)
	default:
		return o.connectSqlite(ctx, cfg.DatabasePath(), gormCfg)
	}
}

func (o *gormOperator) connectSqlite(
	ctx context.Context,
	path string,
	gormCfg *gorm.Config,
) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return SqliteOpenError(path, err)
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"+
			"&_pragma=journal_mode(WAL)&_time_format=sqlite",
		path,
	)
	gdb, err := gorm.Open(
		sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}),
		gormCfg,
	)
	if err != nil {
		return SqliteOpenError(path, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return SqliteOpenError(path, err)
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return SqliteOpenError(path, err)
	}

	slog.Debug("Opened sqlite catalog", "path", path)
	o.db = gdb
	return nil
}

func (o *gormOperator) connectPostgres(
	ctx context.Context,
	cfg *config.CatalogConfig,
	gormCfg *gorm.Config,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	gdb, err := gorm.Open(
		postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(pool)}),
		gormCfg,
	)
	if err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	slog.Debug("Connected to PostgreSQL catalog",
		"host", cfg.Host, "database", cfg.Database)
	o.db = gdb
	o.pool = pool
	return nil
}

// Close releases the catalog.
func (o *gormOperator) Close() error {
	if o.db == nil {
		return nil
	}
	sqlDB, err := o.db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if o.pool != nil {
		o.pool.Close()
		o.pool = nil
	}
	o.db = nil
	return err
}

// DB returns the gorm session.
func (o *gormOperator) DB() *gorm.DB {
	return o.db
}

// TableExists checks if a table exists in the catalog.
func (o *gormOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if o.db == nil {
		return false, NotConnectedError()
	}
	return o.db.WithContext(ctx).Migrator().HasTable(tableName), nil
}

// HasTables checks if any catalog table exists.
func (o *gormOperator) HasTables(ctx context.Context) (bool, error) {
	if o.db == nil {
		return false, NotConnectedError()
	}
	m := o.db.WithContext(ctx).Migrator()
	for _, t := range schema.TableNames() {
		if m.HasTable(t) {
			return true, nil
		}
	}
	return false, nil
}

// DropAllTables drops catalog tables, dependent tables first.
func (o *gormOperator) DropAllTables(ctx context.Context) error {
	if o.db == nil {
		return NotConnectedError()
	}
	m := o.db.WithContext(ctx).Migrator()
	for _, t := range schema.TableNames() {
		if err := m.DropTable(t); err != nil {
			return DropTableError(t, err)
		}
	}
	return nil
}

// Scoped runs fn in a transaction.
func (o *gormOperator) Scoped(
	ctx context.Context,
	fn func(tx *gorm.DB) error,
) error {
	if o.db == nil {
		return NotConnectedError()
	}
	return o.db.WithContext(ctx).Transaction(fn)
}
