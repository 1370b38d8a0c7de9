// Package store persists the business directory. Two backends are
// provided: SQLite (default, a single-file zero-dependency deployment)
// and Postgres for shared installs.
package store

import (
	"context"
	"math"

	"github.com/rotisserie/eris"

	"github.com/laundrymap/laundrymap/internal/model"
)

// ErrValidation marks a create request with missing or unusable required
// fields. Callers map it to a client error.
var ErrValidation = eris.New("store: validation failed")

// Store defines the persistence interface consumed by the API server and
// the CLI commands. ListBusinesses returns a full snapshot; the dataset is
// small enough that no pagination is needed.
type Store interface {
	ListBusinesses(ctx context.Context) ([]model.Business, error)
	CreateBusiness(ctx context.Context, b model.Business) (*model.Business, error)
	CountBusinesses(ctx context.Context) (int, error)
	DeleteAllBusinesses(ctx context.Context) error
	Stats(ctx context.Context) (*model.StoreStats, error)

	Migrate(ctx context.Context) error
	Close() error
}

// ValidateNew checks the required fields of a business to be created:
// a non-empty name and finite, in-range coordinates. Optional fields are
// accepted as-is.
func ValidateNew(b model.Business) error {
	if b.Name == "" {
		return eris.Wrap(ErrValidation, "name is required")
	}
	if math.IsNaN(b.Lat) || math.IsInf(b.Lat, 0) || b.Lat < -90 || b.Lat > 90 {
		return eris.Wrapf(ErrValidation, "latitude %v out of range", b.Lat)
	}
	if math.IsNaN(b.Lng) || math.IsInf(b.Lng, 0) || b.Lng < -180 || b.Lng > 180 {
		return eris.Wrapf(ErrValidation, "longitude %v out of range", b.Lng)
	}
	return nil
}
