package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/laundrymap/laundrymap/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS laundries (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	name               TEXT NOT NULL,
	lat                REAL NOT NULL,
	lng                REAL NOT NULL,
	address            TEXT,
	price_per_kg       INTEGER,
	service_speed_days REAL,
	opening_hours      TEXT
);

CREATE INDEX IF NOT EXISTS idx_laundries_price ON laundries(price_per_kg);
CREATE INDEX IF NOT EXISTS idx_laundries_speed ON laundries(service_speed_days);
CREATE INDEX IF NOT EXISTS idx_laundries_location ON laundries(lat, lng);
CREATE INDEX IF NOT EXISTS idx_laundries_name ON laundries(name);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ListBusinesses(ctx context.Context) ([]model.Business, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, lat, lng, address, price_per_kg, service_speed_days, opening_hours
		 FROM laundries ORDER BY id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list businesses")
	}
	defer rows.Close()

	var businesses []model.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan business")
		}
		businesses = append(businesses, *b)
	}
	return businesses, eris.Wrap(rows.Err(), "sqlite: list businesses iterate")
}

func (s *SQLiteStore) CreateBusiness(ctx context.Context, b model.Business) (*model.Business, error) {
	if err := ValidateNew(b); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO laundries (name, lat, lng, address, price_per_kg, service_speed_days, opening_hours)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.Name, b.Lat, b.Lng,
		nullString(b.Address), nullIntPtr(b.PricePerKG), nullFloatPtr(b.SpeedDays), nullString(b.OpeningHours),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert business")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: last insert id")
	}
	b.ID = id
	return &b, nil
}

func (s *SQLiteStore) CountBusinesses(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM laundries`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count businesses")
}

func (s *SQLiteStore) DeleteAllBusinesses(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM laundries`)
	return eris.Wrap(err, "sqlite: delete all businesses")
}

func (s *SQLiteStore) Stats(ctx context.Context) (*model.StoreStats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			AVG(price_per_kg), MIN(price_per_kg), MAX(price_per_kg),
			AVG(service_speed_days), MIN(service_speed_days), MAX(service_speed_days)
		FROM laundries
	`)
	return scanStats(row)
}

// helpers shared by both backends

type scannable interface {
	Scan(dest ...any) error
}

func scanBusiness(row scannable) (*model.Business, error) {
	var b model.Business
	var address, hours sql.NullString
	var price sql.NullInt64
	var speed sql.NullFloat64

	if err := row.Scan(&b.ID, &b.Name, &b.Lat, &b.Lng, &address, &price, &speed, &hours); err != nil {
		return nil, err
	}

	b.Address = address.String
	b.OpeningHours = hours.String
	if price.Valid {
		v := int(price.Int64)
		b.PricePerKG = &v
	}
	if speed.Valid {
		v := speed.Float64
		b.SpeedDays = &v
	}
	return &b, nil
}

func scanStats(row scannable) (*model.StoreStats, error) {
	var st model.StoreStats
	var avgPrice, avgSpeed, minSpeed, maxSpeed sql.NullFloat64
	var minPrice, maxPrice sql.NullInt64

	err := row.Scan(
		&st.TotalBusinesses,
		&avgPrice, &minPrice, &maxPrice,
		&avgSpeed, &minSpeed, &maxSpeed,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: scan stats")
	}

	if avgPrice.Valid {
		st.AvgPrice = &avgPrice.Float64
	}
	if minPrice.Valid {
		v := int(minPrice.Int64)
		st.MinPrice = &v
	}
	if maxPrice.Valid {
		v := int(maxPrice.Int64)
		st.MaxPrice = &v
	}
	if avgSpeed.Valid {
		st.AvgSpeedDays = &avgSpeed.Float64
	}
	if minSpeed.Valid {
		st.MinSpeedDays = &minSpeed.Float64
	}
	if maxSpeed.Valid {
		st.MaxSpeedDays = &maxSpeed.Float64
	}
	return &st, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIntPtr(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloatPtr(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
