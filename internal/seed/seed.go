// Package seed loads the bundled laundry dataset into a store.
package seed

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/laundrymap/laundrymap/internal/model"
	"github.com/laundrymap/laundrymap/internal/store"
)

// Entry is one dataset row. Price and speed use pointers so a missing key
// stays distinguishable from an explicit zero.
type Entry struct {
	Name         string   `yaml:"name"`
	Lat          float64  `yaml:"lat"`
	Lng          float64  `yaml:"lng"`
	Address      string   `yaml:"address"`
	PricePerKG   *int     `yaml:"price_per_kg"`
	SpeedDays    *float64 `yaml:"service_speed_days"`
	OpeningHours string   `yaml:"opening_hours"`
}

// Dataset is the YAML document shape.
type Dataset struct {
	Laundries []Entry `yaml:"laundries"`
}

// LoadFile parses a dataset from disk.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "seed: read %s", path)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, eris.Wrapf(err, "seed: parse %s", path)
	}
	if len(ds.Laundries) == 0 {
		return nil, eris.Errorf("seed: %s contains no laundries", path)
	}
	return &ds, nil
}

// Options controls a seeding run.
type Options struct {
	// Replace drops existing rows first. Without it, a non-empty store is
	// left untouched so repeated seeding stays idempotent.
	Replace     bool
	Concurrency int
}

// Result reports what a Run did.
type Result struct {
	Inserted int
	Failed   int
	Skipped  bool
}

// Run inserts the dataset using a bounded worker group. Individual insert
// failures are logged and counted without aborting the run; only a store
// that cannot be prepared fails it.
func Run(ctx context.Context, st store.Store, ds *Dataset, opts Options) (*Result, error) {
	if opts.Concurrency < 1 {
		opts.Concurrency = 4
	}

	count, err := st.CountBusinesses(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "seed: count existing rows")
	}

	if count > 0 {
		if !opts.Replace {
			zap.L().Info("store already seeded, skipping", zap.Int("existing", count))
			return &Result{Skipped: true}, nil
		}
		if err := st.DeleteAllBusinesses(ctx); err != nil {
			return nil, eris.Wrap(err, "seed: clear existing rows")
		}
		zap.L().Info("cleared existing rows", zap.Int("deleted", count))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	var inserted, failed atomic.Int64

	for _, entry := range ds.Laundries {
		b := model.Business{
			Name:         entry.Name,
			Lat:          entry.Lat,
			Lng:          entry.Lng,
			Address:      entry.Address,
			PricePerKG:   entry.PricePerKG,
			SpeedDays:    entry.SpeedDays,
			OpeningHours: entry.OpeningHours,
		}
		g.Go(func() error {
			if _, err := st.CreateBusiness(gctx, b); err != nil {
				failed.Add(1)
				zap.L().Error("seed: insert failed",
					zap.String("name", b.Name),
					zap.Error(err),
				)
				return nil // keep seeding the rest
			}
			inserted.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "seed: insert workers")
	}

	res := &Result{Inserted: int(inserted.Load()), Failed: int(failed.Load())}
	zap.L().Info("seeding complete",
		zap.Int("inserted", res.Inserted),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
