// Package districts loads the district polygon set used by the choropleth
// aggregator. Polygons are static per deployment: the server loads them once
// per session through Cache and never re-fetches.
package districts

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/laundrymap/laundrymap/internal/model"
)

// LoadGeoJSON reads a FeatureCollection of named Polygon or MultiPolygon
// features and returns one district per outer ring. Features without a name
// property or a usable polygon are skipped with a warning.
func LoadGeoJSON(path string) ([]model.District, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "districts: read %s", path)
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON parses district polygons from raw GeoJSON bytes.
func ParseGeoJSON(data []byte) ([]model.District, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "districts: parse geojson")
	}

	var out []model.District
	for i, f := range fc.Features {
		name := featureName(f)
		if name == "" {
			zap.L().Warn("districts: skipping unnamed feature", zap.Int("index", i))
			continue
		}

		for _, ring := range outerRings(f.Geometry) {
			if len(ring) < 3 {
				zap.L().Warn("districts: skipping degenerate ring",
					zap.String("district", name), zap.Int("vertices", len(ring)))
				continue
			}
			out = append(out, model.District{Name: name, Ring: ring})
		}
	}
	return out, nil
}

func featureName(f *geojson.Feature) string {
	if f == nil || f.Properties == nil {
		return ""
	}
	name, _ := f.Properties["name"].(string)
	return name
}

// outerRings extracts the outer ring of each polygon in the geometry.
// Interior rings (holes) are ignored: the shipped district set has none,
// and a hole would only matter for businesses inside it.
func outerRings(g geom.T) [][]geom.Coord {
	switch p := g.(type) {
	case *geom.Polygon:
		if p.NumLinearRings() == 0 {
			return nil
		}
		return [][]geom.Coord{p.LinearRing(0).Coords()}
	case *geom.MultiPolygon:
		var rings [][]geom.Coord
		for i := 0; i < p.NumPolygons(); i++ {
			poly := p.Polygon(i)
			if poly.NumLinearRings() == 0 {
				continue
			}
			rings = append(rings, poly.LinearRing(0).Coords())
		}
		return rings
	default:
		return nil
	}
}

// ToFeatureCollection serializes districts to a FeatureCollection, closing
// each ring.
func ToFeatureCollection(ds []model.District) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{}
	for _, d := range ds {
		if len(d.Ring) < 3 {
			zap.L().Warn("districts: skipping degenerate ring", zap.String("district", d.Name))
			continue
		}
		ring := append(append([]geom.Coord{}, d.Ring...), d.Ring[0])
		poly, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
		if err != nil {
			return nil, eris.Wrapf(err, "districts: build polygon %s", d.Name)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   poly,
			Properties: map[string]any{"name": d.Name},
		})
	}
	return fc, nil
}

// WriteGeoJSON writes districts as a FeatureCollection file. Used by the
// districts load command to normalize shapefile input into the file the
// server reads.
func WriteGeoJSON(path string, ds []model.District) error {
	fc, err := ToFeatureCollection(ds)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "districts: marshal geojson")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "districts: write %s", path)
	}
	return nil
}

// Cache loads districts at most once per process.
type Cache struct {
	load func() ([]model.District, error)

	once sync.Once
	ds   []model.District
	err  error
}

// NewCache wraps a loader; the file is read on first Get only.
func NewCache(load func() ([]model.District, error)) *Cache {
	return &Cache{load: load}
}

// NewFileCache is a Cache over LoadGeoJSON.
func NewFileCache(path string) *Cache {
	return NewCache(func() ([]model.District, error) { return LoadGeoJSON(path) })
}

// Get returns the cached district set, loading it on first call.
func (c *Cache) Get() ([]model.District, error) {
	c.once.Do(func() {
		c.ds, c.err = c.load()
		if c.err == nil {
			zap.L().Info("loaded district polygons", zap.Int("count", len(c.ds)))
		}
	})
	return c.ds, c.err
}
