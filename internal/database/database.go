package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/feedback-portal/internal/config"
	"github.com/AnshRaj112/feedback-portal/pkg/apperrors"
)

// Provider hands out dedicated connections to the feedback store.
type Provider struct {
	db      *sql.DB
	driver  string
	dialect goqu.DialectWrapper
}

// Open connects to the store described by cfg and verifies the credentials with a ping.
func Open(ctx context.Context, cfg *config.Config) (*Provider, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, apperrors.NewConnectionError("invalid database configuration", err)
	}

	db, err := sql.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, apperrors.NewConnectionError("failed to open database", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, apperrors.NewConnectionError("failed to reach database", err)
	}

	log.Info().Str("driver", cfg.DBDriver).Str("host", cfg.DBHost).Msg("connected to database")
	return NewProvider(db, cfg.DBDriver), nil
}

// NewProvider wraps an already opened handle. driver selects the SQL dialect.
func NewProvider(db *sql.DB, driver string) *Provider {
	return &Provider{
		db:      db,
		driver:  driver,
		dialect: goqu.Dialect(driver),
	}
}

// Driver returns the driver name the provider was opened with.
func (p *Provider) Driver() string {
	return p.driver
}

// Dialect returns the query builder dialect for the driver.
func (p *Provider) Dialect() goqu.DialectWrapper {
	return p.dialect
}

// Acquire returns a connection owned by the caller until it calls Close.
func (p *Provider) Acquire(ctx context.Context) (*sql.Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, apperrors.NewConnectionError("failed to acquire database connection", err)
	}
	return conn, nil
}

// WithConn runs fn on a dedicated connection and releases it on every return path,
// including panics inside fn.
func (p *Provider) WithConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to release database connection")
		}
	}()

	return fn(conn)
}

// Ping checks that the store is still reachable.
func (p *Provider) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return apperrors.NewConnectionError("database ping failed", err)
	}
	return nil
}

// Close closes the underlying handle.
func (p *Provider) Close() error {
	if p.db == nil {
		return nil
	}
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
