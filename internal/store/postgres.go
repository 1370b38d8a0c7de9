package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/laundrymap/laundrymap/internal/db"
	"github.com/laundrymap/laundrymap/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const (
	sqlInsertBusiness  = `INSERT INTO laundries (name, lat, lng, address, price_per_kg, service_speed_days, opening_hours) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	sqlListBusinesses  = `SELECT id, name, lat, lng, address, price_per_kg, service_speed_days, opening_hours FROM laundries ORDER BY id`
	sqlCountBusinesses = `SELECT COUNT(*) FROM laundries`
	sqlBusinessStats   = `SELECT COUNT(*), AVG(price_per_kg), MIN(price_per_kg), MAX(price_per_kg), AVG(service_speed_days), MIN(service_speed_days), MAX(service_speed_days) FROM laundries`
)

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_business":  sqlInsertBusiness,
	"list_businesses":  sqlListBusinesses,
	"count_businesses": sqlCountBusinesses,
	"business_stats":   sqlBusinessStats,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS laundries (
	id                 BIGSERIAL PRIMARY KEY,
	name               TEXT NOT NULL,
	lat                DOUBLE PRECISION NOT NULL,
	lng                DOUBLE PRECISION NOT NULL,
	address            TEXT,
	price_per_kg       INTEGER,
	service_speed_days DOUBLE PRECISION,
	opening_hours      TEXT
);

CREATE INDEX IF NOT EXISTS idx_laundries_price ON laundries(price_per_kg);
CREATE INDEX IF NOT EXISTS idx_laundries_speed ON laundries(service_speed_days);
CREATE INDEX IF NOT EXISTS idx_laundries_location ON laundries(lat, lng);
CREATE INDEX IF NOT EXISTS idx_laundries_name ON laundries(name);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) ListBusinesses(ctx context.Context) ([]model.Business, error) {
	rows, err := s.pool.Query(ctx, sqlListBusinesses)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list businesses")
	}
	defer rows.Close()

	var businesses []model.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan business")
		}
		businesses = append(businesses, *b)
	}
	return businesses, eris.Wrap(rows.Err(), "postgres: list businesses iterate")
}

func (s *PostgresStore) CreateBusiness(ctx context.Context, b model.Business) (*model.Business, error) {
	if err := ValidateNew(b); err != nil {
		return nil, err
	}

	err := s.pool.QueryRow(ctx, sqlInsertBusiness,
		b.Name, b.Lat, b.Lng,
		nullString(b.Address), nullIntPtr(b.PricePerKG), nullFloatPtr(b.SpeedDays), nullString(b.OpeningHours),
	).Scan(&b.ID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert business")
	}
	return &b, nil
}

func (s *PostgresStore) CountBusinesses(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, sqlCountBusinesses).Scan(&n)
	return n, eris.Wrap(err, "postgres: count businesses")
}

func (s *PostgresStore) DeleteAllBusinesses(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM laundries`)
	return eris.Wrap(err, "postgres: delete all businesses")
}

func (s *PostgresStore) Stats(ctx context.Context) (*model.StoreStats, error) {
	return scanStats(s.pool.QueryRow(ctx, sqlBusinessStats))
}
